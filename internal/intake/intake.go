// Package intake reads analyzer findings from issue files.
//
// Two layouts are accepted. JSON files hold either a bare array of issue
// records or an object with an "issues" array; NDJSON files (.ndjson, .jsonl)
// hold one record per line:
//
//	{"path": "src/Foo.java", "rule": "squid:S1234", "severity": "MAJOR", "line": 3, "offset": 4, "name": "Foo"}
//
// Only path, rule and severity are required. Missing positions stay absent.
package intake

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"lintreport/internal/issue"
)

// Format is the layout of an issue file.
type Format uint8

const (
	FormatAuto   Format = iota // pick by extension
	FormatJSON                 // array or {"issues": [...]}
	FormatNDJSON               // one record per line
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSON:
		return "json"
	case FormatNDJSON:
		return "ndjson"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	default:
		return FormatJSON
	}
}

type record struct {
	Path      string  `json:"path"`
	Rule      string  `json:"rule"`
	Severity  string  `json:"severity"`
	Line      *int64  `json:"line,omitempty"`
	Offset    *int64  `json:"offset,omitempty"`
	EndLine   *int64  `json:"end_line,omitempty"`
	EndOffset *int64  `json:"end_offset,omitempty"`
	Name      *string `json:"name,omitempty"`
}

type envelope struct {
	Issues []record `json:"issues"`
}

// Load reads one issue file. Relative issue paths are resolved against root
// when it is not empty.
func Load(path, root string) ([]issue.Issue, error) {
	// #nosec G304 -- issue files are named on the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	issues, err := Decode(f, DetectFormat(path), root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return issues, nil
}

// Decode reads issues from r.
func Decode(r io.Reader, format Format, root string) ([]issue.Issue, error) {
	var recs []record
	var err error
	switch format {
	case FormatNDJSON:
		recs, err = decodeNDJSON(r)
	case FormatJSON, FormatAuto:
		recs, err = decodeJSON(r)
	default:
		return nil, fmt.Errorf("unsupported issue format %v", format)
	}
	if err != nil {
		return nil, err
	}

	out := make([]issue.Issue, 0, len(recs))
	for n, rec := range recs {
		i, err := rec.toIssue(root)
		if err != nil {
			return nil, fmt.Errorf("issue #%d: %w", n+1, err)
		}
		out = append(out, i)
	}
	return out, nil
}

func decodeJSON(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var recs []record
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return recs, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return env.Issues, nil
}

func decodeNDJSON(r io.Reader) ([]record, error) {
	var recs []record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse JSON: %w", lineNo, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (rec record) toIssue(root string) (issue.Issue, error) {
	path := rec.Path
	if root != "" && path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, filepath.FromSlash(path))
	}
	i := issue.Issue{
		Path:     path,
		RuleKey:  rec.Rule,
		Severity: rec.Severity,
	}

	var err error
	if i.StartLine, err = position("line", rec.Line); err != nil {
		return issue.Issue{}, err
	}
	if i.StartOffset, err = position("offset", rec.Offset); err != nil {
		return issue.Issue{}, err
	}
	if i.EndLine, err = position("end_line", rec.EndLine); err != nil {
		return issue.Issue{}, err
	}
	if i.EndOffset, err = position("end_offset", rec.EndOffset); err != nil {
		return issue.Issue{}, err
	}
	// конец по умолчанию совпадает с началом
	if !i.EndLine.IsSet() {
		i.EndLine = i.StartLine
	}
	if rec.Name != nil {
		i.RuleName = issue.Some(*rec.Name)
	}
	return i, nil
}

func position(field string, v *int64) (issue.Opt[uint32], error) {
	if v == nil {
		return issue.None[uint32](), nil
	}
	n, err := safecast.Conv[uint32](*v)
	if err != nil {
		return issue.None[uint32](), fmt.Errorf("%s %d out of range: %w", field, *v, err)
	}
	return issue.Some(n), nil
}
