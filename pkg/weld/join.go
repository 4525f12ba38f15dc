package weld

import (
	"fmt"

	"github.com/Faultbox/meshweld/pkg/geom"
)

// Join concatenates the vertex and face lists of several meshes into one
// index space without deduplicating anything: vertices from different meshes
// at the same location stay distinct. Output vertices group by source mesh,
// in each mesh's own enumeration order.
func Join(srcs []Source) (*MeshData, error) {
	if len(srcs) == 0 {
		return nil, fmt.Errorf("%w: no meshes to join", ErrEmptyInput)
	}

	var nv, nf int
	for _, src := range srcs {
		nv += len(src.Vertices())
		nf += len(src.Faces())
	}
	out := &MeshData{
		Vertices: make([]geom.Vec3, 0, nv),
		Faces:    make([][]int, 0, nf),
	}

	for _, src := range srcs {
		vertices := src.Vertices()
		base := len(out.Vertices)
		local := make(map[int]int, len(vertices))
		for i, v := range vertices {
			local[v] = base + i
			out.Vertices = append(out.Vertices, src.VertexCoordinates(v))
		}
		for _, f := range src.Faces() {
			loop := src.FaceVertices(f)
			face := make([]int, len(loop))
			for i, v := range loop {
				face[i] = local[v]
			}
			out.Faces = append(out.Faces, face)
		}
	}
	return out, nil
}

// JoinAndWeld joins several meshes and welds the result in one pass, without
// materializing the unwelded intermediate. The spatial-key map is built by
// traversing every vertex of every mesh in list order, so output indices
// follow first-seen key order across the whole traversal. The result equals
// Weld applied to Join of the same meshes.
func JoinAndWeld(srcs []Source, prec Precision) (*MeshData, error) {
	if err := prec.Validate(); err != nil {
		return nil, err
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf("%w: no meshes to join", ErrEmptyInput)
	}

	var nv, nf int
	for _, src := range srcs {
		nv += len(src.Vertices())
		nf += len(src.Faces())
	}
	if nv == 0 {
		return nil, fmt.Errorf("%w: meshes have no vertices", ErrEmptyInput)
	}

	keys := newKeyIndex(nv)
	for mi, src := range srcs {
		for _, v := range src.Vertices() {
			k, err := makeKey(src.VertexCoordinates(v), prec)
			if err != nil {
				return nil, fmt.Errorf("mesh %d vertex %d: %w", mi, v, err)
			}
			keys.add(k)
		}
	}

	out := &MeshData{
		Vertices: keys.points(),
		Faces:    make([][]int, 0, nf),
	}
	for _, src := range srcs {
		for _, f := range src.Faces() {
			loop := src.FaceVertices(f)
			face := make([]int, len(loop))
			for i, v := range loop {
				// All vertices passed keying above, so this cannot fail.
				k, err := makeKey(src.VertexCoordinates(v), prec)
				if err != nil {
					return nil, err
				}
				face[i] = keys.indexOf(k)
			}
			out.Faces = append(out.Faces, collapseDegenerate(face))
		}
	}
	return out, nil
}
