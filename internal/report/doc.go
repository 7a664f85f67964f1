// Package report holds the in-memory aggregate that a report generation run
// builds before rendering.
//
// A Report is created once per run with New, fed through AddIssue (directly or
// via a Sink), decorated with SetTitle / SetDate / SetFilesAnalyzed and then
// handed read-only to a renderer. It is not safe for concurrent use and is not
// meant to be reused across runs.
//
// Issues are grouped per file. The file key is the issue path made relative to
// the base path given to New; files outside the base path keep their absolute
// path. Groups are kept in first-seen order and issues inside a group in
// insertion order, so rendering the same Report twice yields the same output
// without any sorting.
package report
