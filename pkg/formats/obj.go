// Package formats reads and writes polygon mesh file formats.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshweld/pkg/geom"
	"github.com/Faultbox/meshweld/pkg/weld"
)

// OBJ format errors.
var (
	ErrMalformedOBJVertex = errors.New("malformed OBJ vertex record")
	ErrMalformedOBJFace   = errors.New("malformed OBJ face record")
	ErrOBJIndexOutOfRange = errors.New("OBJ face index out of range")
)

// ParseOBJ parses Wavefront OBJ data into an indexed mesh. Only geometry is
// read: v records become vertices and f records become faces; texture and
// normal references (v/vt/vn) are stripped, all other record types are
// ignored. Face indices may be 1-based or negative (relative to the vertices
// read so far), as the format allows.
func ParseOBJ(data []byte) (*weld.IndexedMesh, error) {
	var vertices []geom.Vec3
	var faces [][]int

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseOBJVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vertices = append(vertices, v)
		case "f":
			face, err := parseOBJFace(fields[1:], len(vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			faces = append(faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}

	return weld.NewIndexedMesh(vertices, faces)
}

// parseOBJVertex parses the coordinates of a "v" record. A fourth (weight)
// component is permitted and ignored.
func parseOBJVertex(fields []string) (geom.Vec3, error) {
	if len(fields) < 3 {
		return geom.Vec3{}, fmt.Errorf("%w: want 3 coordinates, got %d", ErrMalformedOBJVertex, len(fields))
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("%w: %q", ErrMalformedOBJVertex, fields[i])
		}
		coords[i] = v
	}
	return geom.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// parseOBJFace parses an "f" record into 0-based vertex indices.
func parseOBJFace(fields []string, vertexCount int) ([]int, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: want at least 3 indices, got %d", ErrMalformedOBJFace, len(fields))
	}
	face := make([]int, len(fields))
	for i, field := range fields {
		// Keep only the vertex reference of a/b/c triplets.
		if slash := strings.IndexByte(field, '/'); slash >= 0 {
			field = field[:slash]
		}
		idx, err := strconv.Atoi(field)
		if err != nil || idx == 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedOBJFace, field)
		}
		if idx < 0 {
			// Negative indices count back from the most recent vertex.
			idx = vertexCount + idx
		} else {
			idx--
		}
		if idx < 0 || idx >= vertexCount {
			return nil, fmt.Errorf("%w: %s of %d vertices", ErrOBJIndexOutOfRange, field, vertexCount)
		}
		face[i] = idx
	}
	return face, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*weld.IndexedMesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

// WriteOBJ writes a mesh as Wavefront OBJ geometry.
func WriteOBJ(w io.Writer, m weld.Source) error {
	bw := bufio.NewWriter(w)

	vertices := m.Vertices()
	// OBJ faces are positional, so map source identifiers to 1-based
	// positions in the order the vertices are written.
	position := make(map[int]int, len(vertices))
	for i, v := range vertices {
		position[v] = i + 1
		p := m.VertexCoordinates(v)
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z); err != nil {
			return fmt.Errorf("writing OBJ vertex: %w", err)
		}
	}
	for _, f := range m.Faces() {
		bw.WriteString("f")
		for _, v := range m.FaceVertices(f) {
			fmt.Fprintf(bw, " %d", position[v])
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return fmt.Errorf("writing OBJ face: %w", err)
		}
	}
	return bw.Flush()
}

// WriteOBJFile writes a mesh to an OBJ file on disk.
func WriteOBJFile(path string, m weld.Source) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
