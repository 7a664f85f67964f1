package xmlreport

import (
	"context"
	"errors"
	"strconv"
	"time"

	"lintreport/internal/issue"
	"lintreport/internal/report"
	"lintreport/internal/rules"
	"lintreport/internal/trace"
)

// Generator produces the XML report of one project into a fixed file.
type Generator struct {
	basePath   string
	reportFile string
	encoding   string // name declared in the XML preamble
}

// NewGenerator validates the configuration. basePath is used to relativize
// issue paths; encodingName may be empty for UTF-8.
func NewGenerator(basePath, reportFile, encodingName string) (*Generator, error) {
	if reportFile == "" {
		return nil, errors.New("xmlreport: no report file")
	}
	_, declared, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Generator{
		basePath:   basePath,
		reportFile: reportFile,
		encoding:   declared,
	}, nil
}

// ReportFile returns the destination path.
func (g *Generator) ReportFile() string { return g.reportFile }

// Encoding returns the declared name of the output encoding.
func (g *Generator) Encoding() string { return g.encoding }

// Input is everything one generation run needs.
type Input struct {
	ProjectName   string
	Date          time.Time
	Issues        []issue.Issue
	FilesAnalyzed int
	Resolver      rules.Resolver
}

// Result describes a finished run.
type Result struct {
	Path    string
	Files   int
	Issues  int
	Skipped int // malformed issues left out of the report
	Bytes   int
	Summary report.Summary
}

// Execute builds a fresh report from in and writes it. Malformed issues are
// skipped and counted; the only fatal errors are cancellation, encoding and
// I/O failures.
func (g *Generator) Execute(ctx context.Context, in Input) (Result, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeReport, "xml-report", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	trace.Point(tr, trace.LevelDebug, trace.ScopeReport, "generating XML report to "+g.reportFile, "")

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	rep := report.New(g.basePath, g.encoding)
	rep.SetTitle(in.ProjectName)
	rep.SetDate(in.Date)
	rep.SetFilesAnalyzed(in.FilesAnalyzed)

	sink := report.NewSink(rep)
	for _, i := range in.Issues {
		sink.Report(i)
	}
	rejected := sink.Rejected()
	for _, err := range rejected {
		trace.Point(tr, trace.LevelInfo, trace.ScopeFile, "skipping issue", err.Error())
	}

	data, err := Bytes(rep, in.Resolver)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := writeReport(g.reportFile, data); err != nil {
		trace.Point(tr, trace.LevelError, trace.ScopeReport, "XML report failed", err.Error())
		return Result{}, err
	}

	trace.Point(tr, trace.LevelInfo, trace.ScopeReport, "XML report generated: "+g.reportFile, "")
	span.WithExtra("files", strconv.Itoa(rep.Len())).
		WithExtra("issues", strconv.Itoa(rep.IssueCount()))

	return Result{
		Path:    g.reportFile,
		Files:   rep.Len(),
		Issues:  rep.IssueCount(),
		Skipped: len(rejected),
		Bytes:   len(data),
		Summary: rep.Summary(),
	}, nil
}
