package xmlreport

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"lintreport/internal/issue"
	"lintreport/internal/report"
	"lintreport/internal/rules"
)

func fooResolver() rules.Resolver {
	return rules.Func(func(key string) (rules.Details, bool) {
		if key == "squid:1234" {
			return rules.Details{Key: key, Name: "Foo", HTMLDescription: "foo bar"}, true
		}
		return rules.Details{}, false
	})
}

func mustRender(t *testing.T, rep *report.Report, resolver rules.Resolver) string {
	t.Helper()
	data, err := Bytes(rep, resolver)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	return string(data)
}

func TestRenderSingleIssue(t *testing.T) {
	base := t.TempDir()
	rep := report.New(base, "UTF-8")
	if err := rep.AddIssue(issue.New(filepath.Join(base, "test.java"), "squid:1234", "bla", 1)); err != nil {
		t.Fatalf("AddIssue: %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<sonarlintreport>
  <files>
    <file name="test.java">
      <issues total="1">
        <issue severity="bla" key="squid:1234" name="Foo" line="1" offset="0"/>
      </issues>
    </file>
  </files>
</sonarlintreport>`

	if got := mustRender(t, rep, fooResolver()); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderEmptyReport(t *testing.T) {
	want := `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<sonarlintreport>
  <files>
  </files>
</sonarlintreport>`

	if got := mustRender(t, report.New(t.TempDir(), "UTF-8"), nil); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderAttributes(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "src", "Foo.java")

	tests := []struct {
		name string
		in   issue.Issue
		want string
	}{
		{
			"severity lowercased",
			issue.New(path, "squid:S1", "MAJOR", 7),
			`<issue severity="major" key="squid:S1" line="7" offset="0"/>`,
		},
		{
			"file level issue has no line",
			issue.NewFileLevel(path, "squid:S1", "info"),
			`<issue severity="info" key="squid:S1"/>`,
		},
		{
			"start offset",
			issue.New(path, "squid:S1", "minor", 3).WithOffsets(12, 20),
			`<issue severity="minor" key="squid:S1" line="3" offset="12"/>`,
		},
		{
			"offset without line",
			issue.Issue{Path: path, RuleKey: "squid:S1", Severity: "minor", StartOffset: issue.Some[uint32](4)},
			`<issue severity="minor" key="squid:S1" offset="4"/>`,
		},
		{
			"embedded name used when resolver misses",
			issue.New(path, "squid:S1", "minor", 1).WithRuleName("Embedded"),
			`<issue severity="minor" key="squid:S1" name="Embedded" line="1" offset="0"/>`,
		},
		{
			"resolver wins over embedded name",
			issue.New(path, "squid:1234", "minor", 1).WithRuleName("Embedded"),
			`<issue severity="minor" key="squid:1234" name="Foo" line="1" offset="0"/>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := report.New(base, "UTF-8")
			if err := rep.AddIssue(tt.in); err != nil {
				t.Fatalf("AddIssue: %v", err)
			}
			got := mustRender(t, rep, fooResolver())
			if !strings.Contains(got, "\n        "+tt.want+"\n") {
				t.Fatalf("expected %s in:\n%s", tt.want, got)
			}
			if !strings.Contains(got, `<file name="src/Foo.java">`) {
				t.Fatalf("expected relative file name in:\n%s", got)
			}
		})
	}
}

func TestRenderGroupsInFirstSeenOrder(t *testing.T) {
	base := t.TempDir()
	rep := report.New(base, "UTF-8")
	for _, in := range []issue.Issue{
		issue.New(filepath.Join(base, "B.java"), "k1", "major", 1),
		issue.New(filepath.Join(base, "A.java"), "k2", "major", 2),
		issue.New(filepath.Join(base, "B.java"), "k3", "major", 3),
	} {
		if err := rep.AddIssue(in); err != nil {
			t.Fatalf("AddIssue: %v", err)
		}
	}

	got := mustRender(t, rep, nil)
	b := strings.Index(got, `<file name="B.java">`)
	a := strings.Index(got, `<file name="A.java">`)
	if b < 0 || a < 0 || b > a {
		t.Fatalf("files out of order:\n%s", got)
	}
	if !strings.Contains(got, `<issues total="2">`) || !strings.Contains(got, `<issues total="1">`) {
		t.Fatalf("unexpected totals:\n%s", got)
	}
	if strings.Index(got, `key="k1"`) > strings.Index(got, `key="k3"`) {
		t.Fatalf("issues out of insertion order:\n%s", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	base := t.TempDir()
	rep := report.New(base, "UTF-8")
	for i, name := range []string{"a/X.java", "b/Y.java", "a/X.java", "c/Z.java"} {
		in := issue.New(filepath.Join(base, filepath.FromSlash(name)), "squid:1234", "Critical", uint32(i+1))
		if err := rep.AddIssue(in); err != nil {
			t.Fatalf("AddIssue: %v", err)
		}
	}

	first, err := Bytes(rep, fooResolver())
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	var second bytes.Buffer
	if err := Render(&second, rep, fooResolver()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(first, second.Bytes()) {
		t.Fatalf("renders differ:\n%s\n---\n%s", first, second.Bytes())
	}
}

func TestRenderResolverCalledOncePerIssue(t *testing.T) {
	base := t.TempDir()
	rep := report.New(base, "UTF-8")
	for i := range 5 {
		if err := rep.AddIssue(issue.New(filepath.Join(base, "Foo.java"), "squid:1234", "info", uint32(i+1))); err != nil {
			t.Fatalf("AddIssue: %v", err)
		}
	}

	calls := 0
	counting := rules.Func(func(key string) (rules.Details, bool) {
		calls++
		return rules.Details{Key: key, Name: "Foo"}, true
	})

	mustRender(t, rep, counting)
	mustRender(t, rep, counting)
	if calls != 10 {
		t.Fatalf("resolver calls = %d, want 10", calls)
	}
}

type xmlIssue struct {
	Severity string `xml:"severity,attr"`
	Key      string `xml:"key,attr"`
	Name     string `xml:"name,attr"`
	Line     string `xml:"line,attr"`
	Offset   string `xml:"offset,attr"`
}

type xmlDoc struct {
	XMLName xml.Name `xml:"sonarlintreport"`
	Files   []struct {
		Name   string `xml:"name,attr"`
		Issues struct {
			Total  int        `xml:"total,attr"`
			Issues []xmlIssue `xml:"issue"`
		} `xml:"issues"`
	} `xml:"files>file"`
}

func TestRenderEscapingRoundTrip(t *testing.T) {
	base := t.TempDir()
	rep := report.New(base, "UTF-8")

	fileName := `we"ird & <odd> 'name'.java`
	key := `squid:<&>"'`
	name := "a & b < c > \"d\" 'e'\ttab"

	in := issue.New(filepath.Join(base, fileName), key, "MAJOR", 1)
	if err := rep.AddIssue(in); err != nil {
		t.Fatalf("AddIssue: %v", err)
	}
	resolver := rules.NewCatalog(rules.Details{Key: key, Name: name})

	data, err := Bytes(rep, resolver)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	var doc xmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not well-formed XML: %v\n%s", err, data)
	}
	if len(doc.Files) != 1 || len(doc.Files[0].Issues.Issues) != 1 {
		t.Fatalf("unexpected structure: %+v", doc)
	}
	f := doc.Files[0]
	if f.Name != fileName {
		t.Errorf("file name = %q, want %q", f.Name, fileName)
	}
	got := f.Issues.Issues[0]
	if got.Key != key || got.Name != name || got.Severity != "major" {
		t.Errorf("issue attributes = %+v", got)
	}
}

func TestRenderStreamWellFormed(t *testing.T) {
	base := t.TempDir()
	rep := report.New(base, "UTF-8")
	for i := range 50 {
		in := issue.New(filepath.Join(base, "pkg", "F"+string(rune('a'+i%5))+".java"), "k&"+string(rune('a'+i%26)), "Info", uint32(i+1))
		if err := rep.AddIssue(in); err != nil {
			t.Fatalf("AddIssue: %v", err)
		}
	}

	data, err := Bytes(rep, nil)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	issues := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "issue" {
			issues++
		}
	}
	if issues != 50 {
		t.Fatalf("decoded %d issues, want 50", issues)
	}
}

func TestRenderLatin1(t *testing.T) {
	base := t.TempDir()
	rep := report.New(base, "iso-8859-1")
	if err := rep.AddIssue(issue.New(filepath.Join(base, "Übung.java"), "squid:1234", "info", 1)); err != nil {
		t.Fatalf("AddIssue: %v", err)
	}
	resolver := rules.NewCatalog(rules.Details{Key: "squid:1234", Name: "café ☃"})

	data, err := Bytes(rep, resolver)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(`<?xml version="1.0" encoding="ISO-8859-1" standalone="no"?>`)) {
		t.Fatalf("unexpected preamble:\n%s", data)
	}
	if !bytes.Contains(data, []byte("<file name=\"\xdcbung.java\">")) {
		t.Errorf("file name not encoded as latin-1:\n%q", data)
	}
	if !bytes.Contains(data, []byte("name=\"caf\xe9 &#9731;\"")) {
		t.Errorf("unsupported rune not escaped:\n%q", data)
	}
}

func TestRenderUnknownEncoding(t *testing.T) {
	_, err := Bytes(report.New(t.TempDir(), "no-such-charset"), nil)
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}
