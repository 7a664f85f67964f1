package issue

// Reporter is the minimal contract for receiving issues from an analysis run.
// report.Sink groups them into a Report.
type Reporter interface {
	Report(i Issue)
}
