package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshweld/pkg/weld"
)

// ErrUnknownFormat is returned for file extensions no reader or writer
// handles.
var ErrUnknownFormat = errors.New("unknown mesh format")

// ReadMeshFile loads a mesh from disk, choosing the format by file
// extension (.obj or .stl).
func ReadMeshFile(path string) (*weld.IndexedMesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return ParseOBJFile(path)
	case ".stl":
		return ParseSTLFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// WriteMeshFile writes a mesh to disk, choosing the format by file
// extension (.obj or .stl).
func WriteMeshFile(path string, m weld.Source) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return WriteOBJFile(path, m)
	case ".stl":
		return WriteSTLFile(path, m)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
