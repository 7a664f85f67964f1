package report

import "lintreport/internal/issue"

// SeverityCount is the number of issues sharing one normalized severity.
type SeverityCount struct {
	Severity string
	Count    int
}

// Summary aggregates a report for console output.
type Summary struct {
	Files      int
	Issues     int
	Severities []SeverityCount // first-seen order
}

// Count returns the number of issues with the given severity
// (case-insensitive).
func (s Summary) Count(sev string) int {
	sev = issue.NormalizeSeverity(sev)
	for _, c := range s.Severities {
		if c.Severity == sev {
			return c.Count
		}
	}
	return 0
}

// Summary counts issues per normalized severity.
func (r *Report) Summary() Summary {
	s := Summary{
		Files:  len(r.files),
		Issues: r.total,
	}
	pos := make(map[string]int)
	for _, f := range r.files {
		for _, i := range f.issues {
			sev := issue.NormalizeSeverity(i.Severity)
			idx, ok := pos[sev]
			if !ok {
				idx = len(s.Severities)
				pos[sev] = idx
				s.Severities = append(s.Severities, SeverityCount{Severity: sev})
			}
			s.Severities[idx].Count++
		}
	}
	return s
}
