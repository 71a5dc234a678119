package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Serve mode uses this to separate cache entries per document root, so
// two servers sharing one Redis instance cannot collide.
//
// Example usage:
//
//	// Keys scoped to one document root
//	rootKeyer := NewScopedKeyer(NewDefaultKeyer(), "root:a1b2c3:")
//
//	// Global keys for the single-user CLI
//	cliKeyer := NewDefaultKeyer()
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, url string) string {
	return k.prefix + k.inner.HTTPKey(namespace, url)
}

// DocumentKey generates a prefixed key for parsed tree caching.
func (k *ScopedKeyer) DocumentKey(format, docHash string) string {
	return k.prefix + k.inner.DocumentKey(format, docHash)
}

// LayoutKey generates a prefixed key for computed layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
