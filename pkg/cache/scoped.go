package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep graphs of different API versions apart in a shared Redis.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) GraphKey(input []byte, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(input, opts)
}

func (k *ScopedKeyer) ArtifactKey(graphKey string, opts ArtifactKeyOpts) string {
	// graphKey already carries the prefix.
	return k.prefix + k.inner.ArtifactKey(graphKey, opts)
}
