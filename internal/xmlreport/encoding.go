package xmlreport

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when no encoding name is given.
const DefaultEncoding = "UTF-8"

// ErrUnknownEncoding is returned for charset names that have no encoder.
var ErrUnknownEncoding = errors.New("unknown encoding")

// encNamePattern is the EncName production of the XML declaration.
var encNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]*$`)

// LookupEncoding resolves a charset name (an IANA name or alias, or a
// WHATWG label such as "utf8", case insensitive) to an encoding and the
// name written into the XML declaration. The preferred MIME name wins over
// the formal registry name. An empty name means UTF-8.
func LookupEncoding(name string) (encoding.Encoding, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, DefaultEncoding, nil
	}
	enc := findEncoding(name)
	if enc == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	declared, ok := declaredName(enc)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q has no name usable in an XML declaration", ErrUnknownEncoding, name)
	}
	return enc, declared, nil
}

// findEncoding tries the IANA registry first so that "latin1" stays
// ISO-8859-1; the WHATWG index would map it to windows-1252.
func findEncoding(name string) encoding.Encoding {
	// ianaindex knows some names it has no implementation for
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc
	}
	return nil
}

func declaredName(enc encoding.Encoding) (string, bool) {
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		n, err := index.Name(enc)
		if err == nil && encNamePattern.MatchString(n) {
			return n, true
		}
	}
	return "", false
}

// encode converts UTF-8 text to enc. Characters the target charset cannot
// represent become numeric character references.
func encode(enc encoding.Encoding, utf8Text []byte) ([]byte, error) {
	if enc == unicode.UTF8 {
		return utf8Text, nil
	}
	out, err := encoding.HTMLEscapeUnsupported(enc.NewEncoder()).Bytes(utf8Text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return out, nil
}
