package weld

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshweld/pkg/geom"
)

// Mesh errors.
var (
	ErrEmptyInput      = errors.New("empty input")
	ErrIndexOutOfRange = errors.New("face index out of range")
)

// Source is the read contract the engine requires from a mesh. Vertex
// identifiers are opaque integers scoped to one source; they need not be
// dense or start at zero. Enumeration order must be stable across repeated
// calls within one engine invocation.
type Source interface {
	// Vertices enumerates the vertex identifiers in stable order.
	Vertices() []int
	// VertexCoordinates returns the coordinate of a vertex.
	VertexCoordinates(v int) geom.Vec3
	// Faces enumerates the face identifiers in stable order.
	Faces() []int
	// FaceVertices returns a face's vertex identifiers in loop order.
	FaceVertices(f int) []int
}

// MeshData is the engine's output: a positionally indexed vertex list and
// faces holding indices into it. No face contains two cyclically adjacent
// equal indices; a face reduced below three indices by welding is kept
// unchanged rather than dropped.
type MeshData struct {
	Vertices []geom.Vec3
	Faces    [][]int
}

// IndexedMesh is a concrete positional-index polygon mesh. Vertex and face
// identifiers are positions in the underlying lists, so it satisfies Source
// directly.
type IndexedMesh struct {
	vertices []geom.Vec3
	faces    [][]int
}

// NewIndexedMesh builds a mesh from a vertex list and faces of indices into
// it. Fails with ErrIndexOutOfRange if any face references a vertex that
// does not exist. The slices are retained, not copied.
func NewIndexedMesh(vertices []geom.Vec3, faces [][]int) (*IndexedMesh, error) {
	for fi, face := range faces {
		for _, v := range face {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndexOutOfRange, fi, v, len(vertices))
			}
		}
	}
	return &IndexedMesh{vertices: vertices, faces: faces}, nil
}

// FromMeshData builds an IndexedMesh from engine output.
func FromMeshData(md *MeshData) (*IndexedMesh, error) {
	return NewIndexedMesh(md.Vertices, md.Faces)
}

// Vertices enumerates vertex identifiers: 0..VertexCount-1.
func (m *IndexedMesh) Vertices() []int {
	ids := make([]int, len(m.vertices))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// VertexCoordinates returns the coordinate of vertex v.
func (m *IndexedMesh) VertexCoordinates(v int) geom.Vec3 {
	return m.vertices[v]
}

// Faces enumerates face identifiers: 0..FaceCount-1.
func (m *IndexedMesh) Faces() []int {
	ids := make([]int, len(m.faces))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// FaceVertices returns the vertex indices of face f in loop order.
func (m *IndexedMesh) FaceVertices(f int) []int {
	return m.faces[f]
}

// VertexCount returns the number of vertices.
func (m *IndexedMesh) VertexCount() int {
	return len(m.vertices)
}

// FaceCount returns the number of faces.
func (m *IndexedMesh) FaceCount() int {
	return len(m.faces)
}

// Coordinates returns the vertex list in index order.
func (m *IndexedMesh) Coordinates() []geom.Vec3 {
	return m.vertices
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *IndexedMesh) Bounds() geom.Bounds {
	return geom.BoundsOf(m.vertices)
}
