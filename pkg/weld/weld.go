package weld

import (
	"fmt"

	"github.com/Faultbox/meshweld/pkg/geom"
)

// keyIndex assigns dense output indices to spatial keys in first-seen order.
// Adding a key again is a no-op that returns the existing index, so the
// index order is fixed by the first traversal regardless of repeats.
type keyIndex struct {
	order []Key
	index map[Key]int
}

func newKeyIndex(hint int) *keyIndex {
	return &keyIndex{
		order: make([]Key, 0, hint),
		index: make(map[Key]int, hint),
	}
}

func (ki *keyIndex) add(k Key) int {
	if i, ok := ki.index[k]; ok {
		return i
	}
	i := len(ki.order)
	ki.order = append(ki.order, k)
	ki.index[k] = i
	return i
}

func (ki *keyIndex) indexOf(k Key) int {
	i, ok := ki.index[k]
	if !ok {
		// Every caller keys the full vertex set before remapping faces, so
		// a miss means a face referenced a vertex that was never keyed.
		panic("weld: spatial key missing from index")
	}
	return i
}

// points decodes every key into its representative coordinate, in index
// order. These decoded values are the output vertex positions: once keyed,
// the original coordinates are not stored, so the key is the position.
func (ki *keyIndex) points() []geom.Vec3 {
	pts := make([]geom.Vec3, len(ki.order))
	for i, k := range ki.order {
		pts[i] = k.Point()
	}
	return pts
}

// Weld merges vertices of a single mesh that share a spatial key at the
// given precision. Every face is remapped to the merged indices and edges
// that collapse to zero length are removed. A face left with fewer than
// three indices is emitted unchanged; rejecting such faces is left to the
// consumer.
func Weld(src Source, prec Precision) (*MeshData, error) {
	if err := prec.Validate(); err != nil {
		return nil, err
	}
	vertices := src.Vertices()
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: mesh has no vertices", ErrEmptyInput)
	}

	keys := newKeyIndex(len(vertices))
	vertexKey := make(map[int]Key, len(vertices))
	for _, v := range vertices {
		k, err := makeKey(src.VertexCoordinates(v), prec)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", v, err)
		}
		vertexKey[v] = k
		keys.add(k)
	}

	faceIDs := src.Faces()
	out := &MeshData{
		Vertices: keys.points(),
		Faces:    make([][]int, 0, len(faceIDs)),
	}
	for _, f := range faceIDs {
		loop := src.FaceVertices(f)
		face := make([]int, len(loop))
		for i, v := range loop {
			face[i] = keys.indexOf(vertexKey[v])
		}
		out.Faces = append(out.Faces, collapseDegenerate(face))
	}
	return out, nil
}

// collapseDegenerate removes zero-length edges from a cyclic face loop: an
// index is kept only if it differs from its cyclic successor, which drops
// runs of equal indices including one wrapping past the end.
func collapseDegenerate(face []int) []int {
	if len(face) == 0 {
		return face
	}
	out := make([]int, 0, len(face))
	for i, u := range face {
		if u != face[(i+1)%len(face)] {
			out = append(out, u)
		}
	}
	return out
}
