package issue

import "fmt"

// Issue is a single finding reported against a file.
type Issue struct {
	Path        string
	StartLine   Opt[uint32]
	StartOffset Opt[uint32]
	EndLine     Opt[uint32]
	EndOffset   Opt[uint32]
	RuleKey     string
	Severity    string
	RuleName    Opt[string]
}

// New builds an issue anchored at a line. Use NewFileLevel for issues that
// apply to the whole file.
func New(path, ruleKey, severity string, line uint32) Issue {
	return Issue{
		Path:      path,
		StartLine: Some(line),
		EndLine:   Some(line),
		RuleKey:   ruleKey,
		Severity:  severity,
	}
}

// NewFileLevel builds an issue without any position.
func NewFileLevel(path, ruleKey, severity string) Issue {
	return Issue{
		Path:     path,
		RuleKey:  ruleKey,
		Severity: severity,
	}
}

// WithOffsets returns a copy with start and end column offsets set.
func (i Issue) WithOffsets(start, end uint32) Issue {
	i.StartOffset = Some(start)
	i.EndOffset = Some(end)
	return i
}

// WithRuleName returns a copy carrying an embedded rule display name.
func (i Issue) WithRuleName(name string) Issue {
	i.RuleName = Some(name)
	return i
}

// FileLevel reports whether the issue has no start line.
func (i Issue) FileLevel() bool {
	return !i.StartLine.IsSet()
}

func (i Issue) String() string {
	if line, ok := i.StartLine.Get(); ok {
		return fmt.Sprintf("%s:%d %s %s", i.Path, line, i.Severity, i.RuleKey)
	}
	return fmt.Sprintf("%s %s %s", i.Path, i.Severity, i.RuleKey)
}
