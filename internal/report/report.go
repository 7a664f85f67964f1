package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lintreport/internal/issue"
	"lintreport/internal/source"
)

// ErrMalformedIssue is returned by AddIssue for issues missing a path or a
// rule key. Such issues are not added.
var ErrMalformedIssue = errors.New("malformed issue")

// FileReport groups all issues of one source file.
type FileReport struct {
	name   string
	issues []issue.Issue
}

// Name returns the display name of the file (relative to the report base
// path when possible).
func (f *FileReport) Name() string {
	return f.name
}

// Issues returns the issues of the file in insertion order.
// The returned slice must not be modified.
func (f *FileReport) Issues() []issue.Issue {
	return f.issues
}

// Total returns the number of issues in the file.
func (f *FileReport) Total() int {
	return len(f.issues)
}

// Report is the aggregate root of a report generation run.
type Report struct {
	basePath string
	encoding string

	title         string
	date          time.Time
	filesAnalyzed int

	files []*FileReport
	index map[string]int // file name -> position in files
	total int
}

// New returns an empty report. basePath is used to relativize issue paths and
// encoding names the text encoding the document will be written in.
func New(basePath, encoding string) *Report {
	return &Report{
		basePath: basePath,
		encoding: encoding,
		index:    make(map[string]int),
	}
}

// AddIssue files i under its owning file, creating the file group on first
// sight. Path resolution never fails; only issues without a path or rule key
// are rejected.
func (r *Report) AddIssue(i issue.Issue) error {
	if strings.TrimSpace(i.Path) == "" {
		return fmt.Errorf("%w: empty path (rule %q)", ErrMalformedIssue, i.RuleKey)
	}
	if i.RuleKey == "" {
		return fmt.Errorf("%w: empty rule key (%s)", ErrMalformedIssue, i.Path)
	}

	name := source.DisplayPath(i.Path, r.basePath)
	pos, ok := r.index[name]
	if !ok {
		pos = len(r.files)
		r.files = append(r.files, &FileReport{name: name})
		r.index[name] = pos
	}
	f := r.files[pos]
	f.issues = append(f.issues, i)
	r.total++
	return nil
}

// SetTitle sets the report title (the project name).
func (r *Report) SetTitle(title string) {
	r.title = title
}

// SetDate sets the generation timestamp.
func (r *Report) SetDate(date time.Time) {
	r.date = date
}

// SetFilesAnalyzed sets the number of analysed files. Negative values are
// stored as zero.
func (r *Report) SetFilesAnalyzed(n int) {
	r.filesAnalyzed = max(n, 0)
}

func (r *Report) Title() string { return r.title }
func (r *Report) Date() time.Time { return r.date }
func (r *Report) FilesAnalyzed() int { return r.filesAnalyzed }
func (r *Report) BasePath() string { return r.basePath }
func (r *Report) Encoding() string { return r.encoding }

// Files returns the file groups in first-seen order.
// The returned slice must not be modified.
func (r *Report) Files() []*FileReport {
	return r.files
}

// File looks up a file group by display name.
func (r *Report) File(name string) (*FileReport, bool) {
	pos, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.files[pos], true
}

// Len returns the number of file groups.
func (r *Report) Len() int {
	return len(r.files)
}

// IssueCount returns the number of issues accepted by AddIssue.
func (r *Report) IssueCount() int {
	return r.total
}
