package issue

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity tokens commonly produced by analyzers. Any other token is accepted
// as is; these only drive console colouring.
const (
	SeverityBlocker  = "blocker"
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
	SeverityInfo     = "info"
)

// NormalizeSeverity lowercases a severity token for output. The token is not
// validated: "bla" stays "bla".
func NormalizeSeverity(sev string) string {
	return cases.Lower(language.Und).String(sev)
}
