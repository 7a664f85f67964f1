// Package testkit holds checks shared by package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lintreport/internal/issue"
	"lintreport/internal/report"
	"lintreport/internal/source"
)

// CheckReportInvariants verifies the grouping invariants of rep after
// accepted successful AddIssue calls:
// 1) every file group is non-empty and its Total matches its issues
// 2) every issue sits in the group named after its own relativized path
// 3) group names are unique and the issue total equals accepted
func CheckReportInvariants(rep *report.Report, accepted int) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}

	seen := make(map[string]struct{}, rep.Len())
	sum := 0
	for _, f := range rep.Files() {
		if _, dup := seen[f.Name()]; dup {
			return fmt.Errorf("duplicate group %q", f.Name())
		}
		seen[f.Name()] = struct{}{}

		if f.Total() == 0 {
			return fmt.Errorf("empty group %q", f.Name())
		}
		if f.Total() != len(f.Issues()) {
			return fmt.Errorf("group %q: total %d != %d issues", f.Name(), f.Total(), len(f.Issues()))
		}
		for _, i := range f.Issues() {
			if err := checkIssue(rep, f.Name(), i); err != nil {
				return err
			}
		}
		sum += f.Total()
	}

	if sum != accepted || rep.IssueCount() != accepted {
		return fmt.Errorf("issue total %d (count %d), want %d", sum, rep.IssueCount(), accepted)
	}
	if rep.Len() != len(seen) {
		return fmt.Errorf("Len() = %d, want %d", rep.Len(), len(seen))
	}
	return nil
}

func checkIssue(rep *report.Report, group string, i issue.Issue) error {
	if want := source.DisplayPath(i.Path, rep.BasePath()); want != group {
		return fmt.Errorf("issue %v filed under %q, want %q", i, group, want)
	}
	if i.RuleKey == "" {
		return fmt.Errorf("issue without rule key in %q", group)
	}
	// позиции должны влезать в int для потребителей отчёта
	if line, ok := i.StartLine.Get(); ok {
		if _, err := safecast.Conv[int32](line); err != nil {
			return fmt.Errorf("issue %v: line overflow: %w", i, err)
		}
	}
	return nil
}
