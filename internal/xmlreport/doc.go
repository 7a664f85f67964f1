// Package xmlreport renders a report.Report as a SonarLint XML report and
// writes it to disk.
//
// The document layout is fixed:
//
//	<?xml version="1.0" encoding="UTF-8" standalone="no"?>
//	<sonarlintreport>
//	  <files>
//	    <file name="src/Foo.java">
//	      <issues total="1">
//	        <issue severity="major" key="squid:S1234" name="Foo" line="3" offset="0"/>
//	      </issues>
//	    </file>
//	  </files>
//	</sonarlintreport>
//
// Files appear in first-seen order and issues in insertion order, so the same
// report always renders to the same bytes.
package xmlreport
