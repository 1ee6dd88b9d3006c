package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments can
// share one cache backend without colliding. The HTTP server scopes its
// keys by API version, which doubles as invalidation across releases
// that change the scene or artifact encoding.
//
// Example usage:
//
//	// Versioned keys for the HTTP API
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
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

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(piece, paramsHash string) string {
	return k.prefix + k.inner.SceneKey(piece, paramsHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
