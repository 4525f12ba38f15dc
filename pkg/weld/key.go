// Package weld merges coincident mesh vertices and joins independently
// indexed meshes into one consistent indexed structure.
//
// Vertices are considered coincident when every coordinate component,
// rounded to a caller-supplied decimal precision, is equal. Rounding (not
// distance) defines equivalence, so the relation is not transitive under
// continuous displacement: points straddling a rounding boundary may land
// in different bins even when closer than the tolerance.
package weld

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Faultbox/meshweld/pkg/geom"
)

// Keying errors.
var (
	ErrInvalidPrecision   = errors.New("precision out of supported range")
	ErrCoordinateOverflow = errors.New("coordinate magnitude too large for precision")
	ErrMalformedKey       = errors.New("malformed spatial key")
)

// Precision is the number of decimal places coordinates are rounded to when
// deriving spatial keys. Negative values round to powers of ten left of the
// decimal point (-1 rounds to tens).
type Precision int

// Precision limits.
const (
	DefaultPrecision Precision = 3
	MinPrecision     Precision = -8
	MaxPrecision     Precision = 12
)

// maxScaledComponent bounds |coordinate * 10^precision|. Within this bound a
// scaled component survives the decode round trip: float64 holds the integer
// exactly, and the one rounding error in each direction of the exact-power
// scale stays below half a unit, so re-keying a decoded point reproduces the
// key bit for bit. Coordinates beyond the bound are rejected rather than
// welded on drifting keys.
const maxScaledComponent = int64(1) << 50

// Validate reports whether p is within the supported range.
func (p Precision) Validate() error {
	if p < MinPrecision || p > MaxPrecision {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidPrecision, p, MinPrecision, MaxPrecision)
	}
	return nil
}

// pow10 returns the scaling power for prec as a positive exponent value.
// Powers of ten through 10^22 are exactly representable in float64, so
// scaling always multiplies or divides by an exact constant instead of an
// inexact reciprocal.
func pow10(prec Precision) float64 {
	if prec < 0 {
		return math.Pow10(-int(prec))
	}
	return math.Pow10(int(prec))
}

// Key is the spatial key of a coordinate: its three components rounded to a
// precision and stored as scaled integers. Keys are comparable and usable as
// map keys. Two coordinates produce equal keys exactly when rounding each
// component to the precision yields identical triples.
type Key struct {
	x, y, z int64
	prec    Precision
}

// NewKey returns the spatial key of p at the given precision.
func NewKey(p geom.Vec3, prec Precision) (Key, error) {
	if err := prec.Validate(); err != nil {
		return Key{}, err
	}
	return makeKey(p, prec)
}

// makeKey derives a key from a coordinate with no precision check; callers
// validate the precision once up front. Rounding is half-away-from-zero
// (math.Round) applied per component.
func makeKey(p geom.Vec3, prec Precision) (Key, error) {
	x, err := scaleComponent(p.X, prec)
	if err != nil {
		return Key{}, err
	}
	y, err := scaleComponent(p.Y, prec)
	if err != nil {
		return Key{}, err
	}
	z, err := scaleComponent(p.Z, prec)
	if err != nil {
		return Key{}, err
	}
	return Key{x: x, y: y, z: z, prec: prec}, nil
}

// scaleComponent rounds one component at prec and bounds the result so the
// decode round trip stays exact.
func scaleComponent(v float64, prec Precision) (int64, error) {
	pow := pow10(prec)
	var f float64
	if prec < 0 {
		f = math.Round(v / pow)
	} else {
		f = math.Round(v * pow)
	}
	if f > float64(maxScaledComponent) || f < -float64(maxScaledComponent) {
		return 0, fmt.Errorf("%w: %g at %d decimals", ErrCoordinateOverflow, v, prec)
	}
	return int64(f), nil
}

// Point returns the coordinate the key encodes: the rounded component
// values. Keying the result again at the same precision reproduces the key.
func (k Key) Point() geom.Vec3 {
	pow := pow10(k.prec)
	if k.prec < 0 {
		return geom.Vec3{
			X: float64(k.x) * pow,
			Y: float64(k.y) * pow,
			Z: float64(k.z) * pow,
		}
	}
	return geom.Vec3{
		X: float64(k.x) / pow,
		Y: float64(k.y) / pow,
		Z: float64(k.z) / pow,
	}
}

// String renders the canonical text form of the key: the three rounded
// components, comma-separated, with exactly the key's number of decimals.
func (k Key) String() string {
	decimals := int(k.prec)
	if decimals < 0 {
		decimals = 0
	}
	p := k.Point()
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(p.X, 'f', decimals, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', decimals, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(p.Z, 'f', decimals, 64))
	return b.String()
}

// ParseKey decodes comma-separated key text back into the coordinate it
// spells. Only the shape is checked (three parseable floats), not that the
// digits match any particular precision, so text Key.String never produces
// still decodes if it has that shape. Fails with ErrMalformedKey otherwise.
func ParseKey(s string) (geom.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vec3{}, fmt.Errorf("%w: %q: want 3 components, got %d", ErrMalformedKey, s, len(parts))
	}
	var vals [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("%w: %q: component %d: %v", ErrMalformedKey, s, i, err)
		}
		vals[i] = v
	}
	return geom.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
