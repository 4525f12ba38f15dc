package weld

import (
	"errors"
	"testing"

	"github.com/Faultbox/meshweld/pkg/geom"
)

func mustMesh(t *testing.T, vertices []geom.Vec3, faces [][]int) *IndexedMesh {
	t.Helper()
	m, err := NewIndexedMesh(vertices, faces)
	if err != nil {
		t.Fatalf("NewIndexedMesh() error: %v", err)
	}
	return m
}

func TestWeldCollapsesDuplicateVertex(t *testing.T) {
	// Two vertices at the origin plus one at (1,0,0); the triangle that
	// touches the origin twice collapses to a two-index loop.
	m := mustMesh(t,
		[]geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}},
		[][]int{{0, 1, 2}},
	)
	out, err := Weld(m, 0)
	if err != nil {
		t.Fatalf("Weld() error: %v", err)
	}
	if got, want := len(out.Vertices), 2; got != want {
		t.Fatalf("welded vertex count = %d, want %d", got, want)
	}
	if out.Vertices[0] != (geom.Vec3{X: 0, Y: 0, Z: 0}) || out.Vertices[1] != (geom.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("welded vertices = %v, want origin then (1,0,0)", out.Vertices)
	}
	if got, want := len(out.Faces), 1; got != want {
		t.Fatalf("welded face count = %d, want %d", got, want)
	}
	if got := out.Faces[0]; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("welded face = %v, want [0 1]", got)
	}
}

func TestWeldNearCoincidentWithinTolerance(t *testing.T) {
	m := mustMesh(t,
		[]geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0.0004, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}},
		[][]int{{0, 2, 3}, {1, 3, 2}},
	)
	out, err := Weld(m, 3)
	if err != nil {
		t.Fatalf("Weld() error: %v", err)
	}
	if got, want := len(out.Vertices), 3; got != want {
		t.Errorf("welded vertex count = %d, want %d", got, want)
	}
	// Both triangles must reference the same merged corner.
	if out.Faces[0][0] != out.Faces[1][0] {
		t.Errorf("triangles reference different indices for the merged corner: %v vs %v", out.Faces[0], out.Faces[1])
	}
}

func TestWeldPreservesDistinctVertices(t *testing.T) {
	vertices := []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	m := mustMesh(t, vertices, [][]int{{0, 1, 2}, {0, 2, 3}})
	out, err := Weld(m, 3)
	if err != nil {
		t.Fatalf("Weld() error: %v", err)
	}
	if got, want := len(out.Vertices), len(vertices); got != want {
		t.Errorf("welded vertex count = %d, want %d (all vertices distinct)", got, want)
	}
	if got, want := len(out.Faces), 2; got != want {
		t.Errorf("welded face count = %d, want %d", got, want)
	}
}

func TestWeldVertexCountNeverGrows(t *testing.T) {
	vertices := []geom.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 0.49, Y: 0, Z: 0}, {X: 0.51, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1},
	}
	m := mustMesh(t, vertices, [][]int{{0, 1, 2}, {2, 3, 4}})
	for _, prec := range []Precision{0, 1, 2, 3} {
		out, err := Weld(m, prec)
		if err != nil {
			t.Fatalf("Weld(prec=%d) error: %v", prec, err)
		}
		if len(out.Vertices) > len(vertices) {
			t.Errorf("Weld(prec=%d) grew vertex count: %d > %d", prec, len(out.Vertices), len(vertices))
		}
	}
}

func TestWeldNoAdjacentDuplicates(t *testing.T) {
	// A jittered grid quad strip with many near-coincident corners.
	vertices := []geom.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1.0001, Y: 0.0001, Z: 0}, {X: 2, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0.9999, Y: 1.0001, Z: 0}, {X: 2, Y: 1, Z: 0},
	}
	faces := [][]int{{0, 1, 5, 4}, {2, 3, 7, 6}, {1, 2, 6, 5}}
	m := mustMesh(t, vertices, faces)
	out, err := Weld(m, 2)
	if err != nil {
		t.Fatalf("Weld() error: %v", err)
	}
	for fi, face := range out.Faces {
		for i, u := range face {
			if v := face[(i+1)%len(face)]; u == v && len(face) > 1 {
				t.Errorf("face %d has cyclically adjacent duplicate index %d: %v", fi, u, face)
			}
		}
	}
}

func TestWeldFaceBelowThreeKept(t *testing.T) {
	// All three corners weld to a single point: the face degenerates to a
	// single-index run which collapses away entirely, and is still emitted.
	m := mustMesh(t,
		[]geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0.1, Y: 0, Z: 0}, {X: 0, Y: 0.1, Z: 0}},
		[][]int{{0, 1, 2}},
	)
	out, err := Weld(m, 0)
	if err != nil {
		t.Fatalf("Weld() error: %v", err)
	}
	if got, want := len(out.Faces), 1; got != want {
		t.Fatalf("face count = %d, want %d (degenerate faces are kept)", got, want)
	}
	if got := len(out.Faces[0]); got >= 3 {
		t.Errorf("degenerate face has %d indices, expected collapse below 3", got)
	}
}

func TestWeldEmptyMesh(t *testing.T) {
	m := mustMesh(t, nil, nil)
	_, err := Weld(m, 3)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Weld(empty) = %v, want ErrEmptyInput", err)
	}
}

func TestWeldInvalidPrecision(t *testing.T) {
	m := mustMesh(t, []geom.Vec3{{X: 0, Y: 0, Z: 0}}, nil)
	_, err := Weld(m, MaxPrecision+1)
	if !errors.Is(err, ErrInvalidPrecision) {
		t.Errorf("Weld() = %v, want ErrInvalidPrecision", err)
	}
}

func TestWeldCoordinateOverflow(t *testing.T) {
	m := mustMesh(t,
		[]geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1e6, Y: 0, Z: 0}},
		[][]int{{0, 1, 2}},
	)
	_, err := Weld(m, 12)
	if !errors.Is(err, ErrCoordinateOverflow) {
		t.Errorf("Weld(1e6-magnitude mesh, 12) = %v, want ErrCoordinateOverflow", err)
	}
}

func TestKeyIndexMissingKeyPanics(t *testing.T) {
	ki := newKeyIndex(1)
	a, _ := NewKey(geom.Vec3{X: 0, Y: 0, Z: 0}, 3)
	b, _ := NewKey(geom.Vec3{X: 1, Y: 0, Z: 0}, 3)
	ki.add(a)
	defer func() {
		if recover() == nil {
			t.Error("indexOf of an unseen key should panic, not alias index 0")
		}
	}()
	ki.indexOf(b)
}

func TestWeldInto(t *testing.T) {
	m := mustMesh(t,
		[]geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}},
		[][]int{{0, 1, 2}},
	)
	calls := 0
	out, err := WeldInto(m, 0, func(vertices []geom.Vec3, faces [][]int) (*IndexedMesh, error) {
		calls++
		return NewIndexedMesh(vertices, faces)
	})
	if err != nil {
		t.Fatalf("WeldInto() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("factory invoked %d times, want exactly once", calls)
	}
	if got, want := out.VertexCount(), 2; got != want {
		t.Errorf("welded vertex count = %d, want %d", got, want)
	}
}

func TestNewIndexedMeshRejectsBadIndex(t *testing.T) {
	_, err := NewIndexedMesh([]geom.Vec3{{X: 0, Y: 0, Z: 0}}, [][]int{{0, 1}})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("NewIndexedMesh() = %v, want ErrIndexOutOfRange", err)
	}
	_, err = NewIndexedMesh([]geom.Vec3{{X: 0, Y: 0, Z: 0}}, [][]int{{-1}})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("NewIndexedMesh() = %v, want ErrIndexOutOfRange", err)
	}
}
