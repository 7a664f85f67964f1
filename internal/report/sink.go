package report

import "lintreport/internal/issue"

// Sink is an issue.Reporter that files issues into a Report. Rejected issues
// are remembered instead of interrupting the producer.
type Sink struct {
	report   *Report
	rejected []error
}

// NewSink returns a Sink writing into r.
func NewSink(r *Report) *Sink {
	return &Sink{report: r}
}

// Report adds i to the underlying report.
func (s *Sink) Report(i issue.Issue) {
	if s == nil || s.report == nil {
		return
	}
	if err := s.report.AddIssue(i); err != nil {
		s.rejected = append(s.rejected, err)
	}
}

// Rejected returns the errors of issues that were not added.
func (s *Sink) Rejected() []error {
	if s == nil {
		return nil
	}
	return s.rejected
}

var _ issue.Reporter = (*Sink)(nil)
