package cache

import "github.com/matzehuels/coauthornet/pkg/force"

// LayoutKeyOpts holds the inputs that determine a converged layout besides
// the graph itself.
type LayoutKeyOpts struct {
	Params   force.Params `json:"params"`
	Seed     uint64       `json:"seed"`
	MaxTicks int          `json:"max_ticks,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of the converged snapshot of a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// SourceKey returns the key of a fetched payload.
	SourceKey(uri string) string
}

// DefaultKeyer produces "layout:<sha256>" and "source:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) SourceKey(uri string) string {
	return hashKey("source", uri)
}

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep its snapshots apart from CLI entries sharing the same Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) SourceKey(uri string) string {
	return k.prefix + k.inner.SourceKey(uri)
}
