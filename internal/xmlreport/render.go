package xmlreport

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"lintreport/internal/issue"
	"lintreport/internal/report"
	"lintreport/internal/rules"
)

const indent = "  "

// Render writes rep as an XML document in the report's encoding.
// resolver supplies rule names and is asked once per issue; a nil resolver
// never matches.
func Render(w io.Writer, rep *report.Report, resolver rules.Resolver) error {
	data, err := Bytes(rep, resolver)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Bytes renders rep into memory. See Render.
func Bytes(rep *report.Report, resolver rules.Resolver) ([]byte, error) {
	enc, name, err := LookupEncoding(rep.Encoding())
	if err != nil {
		return nil, err
	}
	if resolver == nil {
		resolver = rules.None
	}

	p := &printer{resolver: resolver}
	p.document(rep, name)
	return encode(enc, p.buf.Bytes())
}

type printer struct {
	buf      bytes.Buffer
	resolver rules.Resolver
}

func (p *printer) document(rep *report.Report, encodingName string) {
	p.buf.WriteString(`<?xml version="1.0" encoding="`)
	p.escape(encodingName)
	p.buf.WriteString(`" standalone="no"?>`)
	p.line(0, "<sonarlintreport>")
	p.line(1, "<files>")
	for _, f := range rep.Files() {
		p.file(f)
	}
	p.line(1, "</files>")
	p.line(0, "</sonarlintreport>")
}

func (p *printer) file(f *report.FileReport) {
	p.open(2, "file")
	p.attr("name", f.Name())
	p.buf.WriteByte('>')

	p.open(3, "issues")
	p.attr("total", strconv.Itoa(f.Total()))
	p.buf.WriteByte('>')
	for _, i := range f.Issues() {
		p.issue(i)
	}
	p.line(3, "</issues>")
	p.line(2, "</file>")
}

func (p *printer) issue(i issue.Issue) {
	p.open(4, "issue")
	p.attr("severity", issue.NormalizeSeverity(i.Severity))
	p.attr("key", i.RuleKey)
	if name, ok := p.ruleName(i); ok {
		p.attr("name", name)
	}
	line, hasLine := i.StartLine.Get()
	if hasLine {
		p.attr("line", strconv.FormatUint(uint64(line), 10))
	}
	// старые отчёты всегда писали offset="0" рядом с line
	if offset, ok := i.StartOffset.Get(); ok || hasLine {
		p.attr("offset", strconv.FormatUint(uint64(offset), 10))
	}
	p.buf.WriteString("/>")
}

// ruleName prefers the resolver, then the name embedded in the issue.
func (p *printer) ruleName(i issue.Issue) (string, bool) {
	if d, ok := p.resolver.Lookup(i.RuleKey); ok && d.Name != "" {
		return d.Name, true
	}
	if name, ok := i.RuleName.Get(); ok && name != "" {
		return name, true
	}
	return "", false
}

// line starts a new line at depth and writes s.
func (p *printer) line(depth int, s string) {
	p.newline(depth)
	p.buf.WriteString(s)
}

func (p *printer) open(depth int, tag string) {
	p.newline(depth)
	p.buf.WriteByte('<')
	p.buf.WriteString(tag)
}

func (p *printer) newline(depth int) {
	p.buf.WriteByte('\n')
	for range depth {
		p.buf.WriteString(indent)
	}
}

func (p *printer) attr(name, value string) {
	p.buf.WriteByte(' ')
	p.buf.WriteString(name)
	p.buf.WriteString(`="`)
	p.escape(value)
	p.buf.WriteByte('"')
}

func (p *printer) escape(s string) {
	// bytes.Buffer writes never fail
	_ = xml.EscapeText(&p.buf, []byte(s))
}
