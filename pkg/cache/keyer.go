package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// GraphKeyOpts identifies a preset graph.
type GraphKeyOpts struct {
	Seed  int64   `json:"seed"`
	Scale float64 `json:"scale"`
}

// ArtifactKeyOpts identifies one encoding of a generated surface.
type ArtifactKeyOpts struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Format string `json:"format"`
	Scale  int    `json:"scale"`
}

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey identifies a preset built with the given parameters.
	GraphKey(preset string, opts GraphKeyOpts) string

	// ArtifactKey identifies an encoded surface of a graph.
	ArtifactKey(graphKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(preset string, opts GraphKeyOpts) string {
	return digest("graph", preset, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(graphKey string, opts ArtifactKeyOpts) string {
	return digest("artifact", graphKey, opts)
}

// digest streams the JSON encoding of parts into SHA-256 and returns
// "kind:<hex>". Parts are plain structs and strings, so encoding cannot fail.
func digest(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. FileCache uses it to name entries.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
