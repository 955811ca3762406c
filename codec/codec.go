// Package codec encodes triangulation meshes for persistence.
//
// Codec selection is a breaking-change boundary: bytes written by one codec
// only decode with the same codec. Binary output records its version and
// compression in the header so readers can reject what they do not support.
package codec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/delaunay/mesh"
)

var (
	// ErrCorrupt is returned when encoded data fails validation.
	ErrCorrupt = errors.New("codec: corrupt data")

	// ErrUnsupportedVersion is returned for binary data of an unknown version.
	ErrUnsupportedVersion = errors.New("codec: unsupported version")
)

// Codec encodes and decodes meshes.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(m *mesh.Mesh) ([]byte, error)
	Unmarshal(data []byte) (*mesh.Mesh, error)
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "binary":
		return Binary{}, true
	case "binary+lz4":
		return Binary{Compression: CompressionLZ4}, true
	case "binary+zstd":
		return Binary{Compression: CompressionZSTD}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, m *mesh.Mesh) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(m)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// Default is the codec used when none is configured.
var Default Codec = Binary{Compression: CompressionZSTD}
