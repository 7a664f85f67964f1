// Package issue defines the read-only finding record that analysis runs hand
// over to the report layer.
//
// # Data model
//
// Issue is the central record. It carries:
//
//   - Path – the analysed file, absolute or resolvable to absolute.
//   - StartLine / StartOffset / EndLine / EndOffset – optional positions.
//     An issue without a start line is a file-level issue.
//   - RuleKey – the rule identifier, e.g. "squid:1234".
//   - Severity – a free-form token; it is compared case-insensitively and
//     lowercased only when rendered (see NormalizeSeverity).
//   - RuleName – an optional display name embedded by the producer.
//
// Optional fields use Opt rather than sentinel values, so "line 0" and "no
// line" stay distinguishable all the way to the renderer.
//
// # Emitting issues
//
// Producers push issues through a Reporter. The report package provides the
// implementation that groups them by file.
package issue
