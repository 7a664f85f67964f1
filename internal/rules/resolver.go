// Package rules resolves rule identifiers to display metadata.
//
// The renderer only depends on the single-method Resolver interface, so rule
// metadata can come from a catalog file, a remote registry or a test stub.
// Resolvers are consulted lazily, once per issue and render; callers that need
// caching wrap their resolver with NewMemo or Cached.
package rules

// Details describes a rule.
type Details struct {
	Key             string `toml:"key" yaml:"key"`
	Name            string `toml:"name" yaml:"name"`
	HTMLDescription string `toml:"html_description" yaml:"html_description"`
	Severity        string `toml:"severity" yaml:"severity"`
	Type            string `toml:"type" yaml:"type"`
}

// Resolver looks up rule metadata by rule key. A miss is not an error.
type Resolver interface {
	Lookup(key string) (Details, bool)
}

// Func adapts a function to Resolver. A nil Func never matches.
type Func func(key string) (Details, bool)

// Lookup calls f(key).
func (f Func) Lookup(key string) (Details, bool) {
	if f == nil {
		return Details{}, false
	}
	return f(key)
}

// None is a resolver that knows no rules.
var None Resolver = Func(nil)

type chain []Resolver

func (c chain) Lookup(key string) (Details, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if d, ok := r.Lookup(key); ok {
			return d, true
		}
	}
	return Details{}, false
}

// Chain returns a resolver that asks each resolver in turn; the first match
// wins. Nil resolvers are skipped.
func Chain(resolvers ...Resolver) Resolver {
	return chain(append([]Resolver(nil), resolvers...))
}
