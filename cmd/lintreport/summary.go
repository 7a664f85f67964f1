package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lintreport/internal/issue"
	"lintreport/internal/xmlreport"
)

func severityColor(sev string) *color.Color {
	switch sev {
	case issue.SeverityBlocker, issue.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case issue.SeverityMajor:
		return color.New(color.FgYellow)
	case issue.SeverityMinor:
		return color.New(color.FgCyan)
	case issue.SeverityInfo:
		return color.New(color.FgBlue)
	default:
		return color.New(color.Reset)
	}
}

// printSummary writes the per-severity breakdown of a finished run.
func printSummary(out io.Writer, res xmlreport.Result, encoding string, useColor bool) {
	paint := func(c *color.Color, s string) string {
		if !useColor {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	bold := color.New(color.Bold)

	fmt.Fprintf(out, "%s %s (%s)\n", paint(bold, "report:"), res.Path, encoding)

	labels := []string{"files", "issues"}
	for _, s := range res.Summary.Severities {
		labels = append(labels, s.Severity)
	}
	width := 0
	for _, l := range labels {
		width = max(width, runewidth.StringWidth(l))
	}

	row := func(label, value string, c *color.Color) {
		fmt.Fprintf(out, "  %s  %s\n", paint(c, runewidth.FillRight(label, width)), value)
	}
	row("files", fmt.Sprint(res.Files), bold)
	row("issues", fmt.Sprint(res.Issues), bold)
	for _, s := range res.Summary.Severities {
		row(s.Severity, fmt.Sprint(s.Count), severityColor(s.Severity))
	}
	if res.Skipped > 0 {
		warn := color.New(color.FgYellow, color.Bold)
		fmt.Fprintf(out, "%s %d malformed issue(s) skipped\n", paint(warn, "warning:"), res.Skipped)
	}
}
