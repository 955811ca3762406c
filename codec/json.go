package codec

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/delaunay/mesh"
	"github.com/hupe1980/delaunay/pointset"
)

// JSON is a human-readable mesh codec built on encoding/json.
//
// It is portable and easy to inspect but several times larger than Binary.
// Float64 values round-trip exactly.
type JSON struct{}

type jsonLift struct {
	Centre []float64 `json:"centre,omitempty"`
	Scale  float64   `json:"scale"`
}

type jsonMesh struct {
	Dim       int         `json:"dim"`
	Points    [][]float64 `json:"points"`
	Simplices [][]int     `json:"simplices"`
	Neighbors [][]int     `json:"neighbors"`
	Coplanar  []int       `json:"coplanar,omitempty"`
	Lift      *jsonLift   `json:"lift,omitempty"`
}

// Marshal encodes m to JSON.
func (JSON) Marshal(m *mesh.Mesh) ([]byte, error) {
	ps := m.Points()

	doc := jsonMesh{
		Dim:       m.Dim(),
		Points:    make([][]float64, ps.Len()),
		Simplices: make([][]int, m.Len()),
		Neighbors: make([][]int, m.Len()),
		Coplanar:  m.Coplanar(),
	}

	for i := range doc.Points {
		doc.Points[i] = ps.At(i)
	}
	for s := range doc.Simplices {
		doc.Simplices[s] = m.Simplex(s)
		doc.Neighbors[s] = m.Neighbors(s)
	}

	if l := m.Lift(); !l.IsZero() {
		doc.Lift = &jsonLift{Centre: l.Centre, Scale: l.Scale}
	}

	return json.Marshal(doc)
}

// Unmarshal decodes JSON produced by Marshal. The mesh is validated.
func (JSON) Unmarshal(data []byte) (*mesh.Mesh, error) {
	var doc jsonMesh
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	ps, err := pointset.New(doc.Dim, func(o *pointset.Options) { o.Capacity = len(doc.Points) })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := ps.AddAll(doc.Points); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var lift mesh.Lift
	if doc.Lift != nil {
		if len(doc.Lift.Centre) != doc.Dim {
			return nil, fmt.Errorf("%w: lift centre has %d coordinates, want %d", ErrCorrupt, len(doc.Lift.Centre), doc.Dim)
		}
		lift = mesh.Lift{Centre: doc.Lift.Centre, Scale: doc.Lift.Scale}
	}

	m, err := mesh.New(ps, doc.Simplices, doc.Neighbors, func(o *mesh.Options) {
		o.Lift = lift
		o.Coplanar = doc.Coplanar
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return m, nil
}

// Name returns "json".
func (JSON) Name() string { return "json" }
