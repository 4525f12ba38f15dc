package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/meshweld/pkg/geom"
	"github.com/Faultbox/meshweld/pkg/weld"
)

// STL format errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
	ErrASCIISTL         = errors.New("ASCII STL not supported, convert to binary")
	ErrNotTriangulated  = errors.New("STL requires a triangulated mesh")
)

// stlTriangleSize is the on-disk size of one binary STL triangle record:
// a normal, three vertices (4-byte floats) and a 2-byte attribute count.
const stlTriangleSize = 12*4 + 2

// ParseSTL parses binary STL data into an indexed mesh. Every triangle in an
// STL file carries its own three vertices, so the resulting mesh has three
// vertices per triangle and no shared topology; welding it afterwards
// recovers the connectivity.
func ParseSTL(data []byte) (*weld.IndexedMesh, error) {
	if len(data) < 84 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedSTLData, len(data))
	}
	// Binary files have no defined magic; ASCII files start with "solid".
	// A binary exporter may still write "solid" into the comment header, so
	// only reject when the triangle count does not match the payload.
	count := binary.LittleEndian.Uint32(data[80:84])
	payload := data[84:]
	if int(count)*stlTriangleSize != len(payload) {
		if bytes.HasPrefix(bytes.TrimLeft(data, " \t"), []byte("solid")) {
			return nil, ErrASCIISTL
		}
		return nil, fmt.Errorf("%w: header declares %d triangles, payload holds %d bytes", ErrTruncatedSTLData, count, len(payload))
	}

	vertices := make([]geom.Vec3, 0, count*3)
	faces := make([][]int, 0, count)
	r := bytes.NewReader(payload)
	for i := 0; i < int(count); i++ {
		tri, err := parseSTLTriangle(r)
		if err != nil {
			return nil, fmt.Errorf("parsing triangle %d: %w", i, err)
		}
		base := len(vertices)
		vertices = append(vertices, tri[0], tri[1], tri[2])
		faces = append(faces, []int{base, base + 1, base + 2})
	}

	return weld.NewIndexedMesh(vertices, faces)
}

// parseSTLTriangle reads one triangle record, skipping the stored normal and
// attribute count.
func parseSTLTriangle(r *bytes.Reader) ([3]geom.Vec3, error) {
	var rec struct {
		Normal    [3]float32
		Vertices  [3][3]float32
		Attribute uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
		return [3]geom.Vec3{}, fmt.Errorf("%w: %v", ErrTruncatedSTLData, err)
	}
	var tri [3]geom.Vec3
	for i, v := range rec.Vertices {
		tri[i] = geom.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
	}
	return tri, nil
}

// ParseSTLFile parses a binary STL file from disk.
func ParseSTLFile(path string) (*weld.IndexedMesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	return ParseSTL(data)
}

// WriteSTL writes a triangulated mesh as binary STL. Facet normals are
// computed from the winding of each triangle. Fails with ErrNotTriangulated
// if any face has more or fewer than three vertices.
func WriteSTL(w io.Writer, m weld.Source) error {
	faceIDs := m.Faces()
	for _, f := range faceIDs {
		if len(m.FaceVertices(f)) != 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrNotTriangulated, f, len(m.FaceVertices(f)))
		}
	}

	var header [80]byte
	copy(header[:], "meshweld binary STL")
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing STL header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(faceIDs))); err != nil {
		return fmt.Errorf("writing STL triangle count: %w", err)
	}

	for _, f := range faceIDs {
		loop := m.FaceVertices(f)
		a := m.VertexCoordinates(loop[0])
		b := m.VertexCoordinates(loop[1])
		c := m.VertexCoordinates(loop[2])

		var rec struct {
			Normal    [3]float32
			Vertices  [3][3]float32
			Attribute uint16
		}
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Length(); l > 0 {
			n = n.Scale(1 / l)
		}
		rec.Normal = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
		for i, p := range []geom.Vec3{a, b, c} {
			rec.Vertices[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
		}
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("writing STL triangle %d: %w", f, err)
		}
	}
	return nil
}

// WriteSTLFile writes a triangulated mesh to a binary STL file on disk.
func WriteSTLFile(path string, m weld.Source) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating STL file: %w", err)
	}
	if err := WriteSTL(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
