package weld

import "github.com/Faultbox/meshweld/pkg/geom"

// Factory constructs a caller-defined mesh type from an ordered vertex list
// and faces of indices into it. The engine invokes a factory exactly once
// per call, after all computation.
type Factory[T any] func(vertices []geom.Vec3, faces [][]int) (T, error)

// WeldInto welds src and hands the result to build.
func WeldInto[T any](src Source, prec Precision, build Factory[T]) (T, error) {
	md, err := Weld(src, prec)
	if err != nil {
		var zero T
		return zero, err
	}
	return build(md.Vertices, md.Faces)
}

// JoinInto joins srcs and hands the result to build.
func JoinInto[T any](srcs []Source, build Factory[T]) (T, error) {
	md, err := Join(srcs)
	if err != nil {
		var zero T
		return zero, err
	}
	return build(md.Vertices, md.Faces)
}

// JoinAndWeldInto joins and welds srcs and hands the result to build.
func JoinAndWeldInto[T any](srcs []Source, prec Precision, build Factory[T]) (T, error) {
	md, err := JoinAndWeld(srcs, prec)
	if err != nil {
		var zero T
		return zero, err
	}
	return build(md.Vertices, md.Faces)
}
