package geom

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec3
}

// BoundsOf returns the bounding box of the given points.
// Returns a zero Bounds for an empty slice.
func BoundsOf(points []Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}

// Extend returns the bounds grown to include p.
func (b Bounds) Extend(p Vec3) Bounds {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
	return b
}

// Size returns the extent of the bounds along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
