package cache

// ResultKeyOpts holds the options that select a distinct cached result for
// the same inputs.
type ResultKeyOpts struct {
	Trivial  bool `json:"trivial,omitempty"`  // evaluated over the single-bag decomposition
	Validate bool `json:"validate,omitempty"` // decomposition was checked against the graph
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey returns the key of a bisection result for the given input
	// hashes. tdHash is empty for trivial runs.
	ResultKey(graphHash, tdHash string, opts ResultKeyOpts) string
}

// DefaultKeyer hashes key components under a fixed namespace.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256(graphHash, tdHash, opts)>".
func (DefaultKeyer) ResultKey(graphHash, tdHash string, opts ResultKeyOpts) string {
	return hashKey("result", graphHash, tdHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. when
// several servers share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(graphHash, tdHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(graphHash, tdHash, opts)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
