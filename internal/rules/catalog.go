package rules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Catalog is a static set of rule descriptions.
type Catalog struct {
	rules map[string]Details
	order []string
}

// catalogFile is the on-disk shape, e.g. in TOML:
//
//	[[rule]]
//	key = "squid:S1234"
//	name = "Methods should not be empty"
//	html_description = "<p>...</p>"
type catalogFile struct {
	Rules []Details `toml:"rule" yaml:"rules"`
}

// NewCatalog builds a catalog from details. Later duplicates replace earlier
// ones.
func NewCatalog(details ...Details) *Catalog {
	c := &Catalog{rules: make(map[string]Details, len(details))}
	for _, d := range details {
		if _, ok := c.rules[d.Key]; !ok {
			c.order = append(c.order, d.Key)
		}
		c.rules[d.Key] = d
	}
	return c
}

// LoadCatalog reads a catalog file. The format is picked by extension:
// .toml, or .yaml / .yml.
func LoadCatalog(path string) (*Catalog, error) {
	var (
		file catalogFile
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(path, &file)
	case ".yaml", ".yml":
		err = decodeYAML(path, &file)
	default:
		return nil, fmt.Errorf("%s: unsupported rule catalog format (expected .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(file.Rules))
	for i, d := range file.Rules {
		if strings.TrimSpace(d.Key) == "" {
			return nil, fmt.Errorf("%s: rule #%d has no key", path, i+1)
		}
		if _, dup := seen[d.Key]; dup {
			return nil, fmt.Errorf("%s: duplicate rule %q", path, d.Key)
		}
		seen[d.Key] = struct{}{}
	}
	return NewCatalog(file.Rules...), nil
}

func decodeTOML(path string, out *catalogFile) error {
	meta, err := toml.DecodeFile(path, out)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func decodeYAML(path string, out *catalogFile) error {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return nil
}

// Lookup implements Resolver.
func (c *Catalog) Lookup(key string) (Details, bool) {
	if c == nil {
		return Details{}, false
	}
	d, ok := c.rules[key]
	return d, ok
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Keys returns rule keys in catalog order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}
