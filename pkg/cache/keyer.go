package cache

// Keyer derives cache keys for the two cacheable pipeline stages.
//
// Keys must be deterministic: equal inputs always produce equal keys.
// DefaultKeyer hashes its inputs with SHA-256, so any change to a
// parameter or render option lands in a fresh entry.
type Keyer interface {
	// SceneKey identifies a generated scene by piece name and the hash
	// of its normalized parameters.
	SceneKey(piece, paramsHash string) string

	// ArtifactKey identifies one rendered format of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that affect artifact bytes.
// They are hashed into the key alongside the scene hash.
type ArtifactKeyOpts struct {
	Format     string
	Width      int
	Height     int
	Margin     float64
	Projection string
	Axes       bool
}

// DefaultKeyer generates hash-based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SceneKey generates a key for scene caching.
func (k *DefaultKeyer) SceneKey(piece, paramsHash string) string {
	return hashKey("scene", piece, paramsHash)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
