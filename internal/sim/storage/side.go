package storage

import "errors"

// ErrInvalidSide is the panic value for side lookups outside 0..5.
var ErrInvalidSide = errors.New("storage: invalid side")

type Vec3i struct {
	X int
	Y int
	Z int
}

func (v Vec3i) ToArray() [3]int { return [3]int{v.X, v.Y, v.Z} }

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

// Side is a block face. Opposite faces differ only in the lowest bit.
type Side int

const (
	SideDown Side = iota
	SideUp
	SideNorth
	SideSouth
	SideEast
	SideWest

	// AnySide disables side filtering where a side is optional.
	AnySide Side = -1
)

var directionsBySide = [6]Vec3i{
	{X: 0, Y: -1, Z: 0}, // down
	{X: 0, Y: 1, Z: 0},  // up
	{X: 0, Y: 0, Z: -1}, // north
	{X: 0, Y: 0, Z: 1},  // south
	{X: -1, Y: 0, Z: 0}, // east
	{X: 1, Y: 0, Z: 0},  // west
}

var sideNames = [6]string{"down", "up", "north", "south", "east", "west"}

func (s Side) Valid() bool { return s >= SideDown && s <= SideWest }

// ValidOrAny also accepts AnySide.
func (s Side) ValidOrAny() bool { return s == AnySide || s.Valid() }

func (s Side) Opposite() Side {
	if s == AnySide {
		return AnySide
	}
	return s ^ 1
}

func (s Side) String() string {
	if s == AnySide {
		return "any"
	}
	if !s.Valid() {
		return "invalid"
	}
	return sideNames[s]
}

// Direction returns the unit offset for s. It panics for sides outside 0..5.
func (s Side) Direction() Vec3i {
	if !s.Valid() {
		panic(ErrInvalidSide)
	}
	return directionsBySide[s]
}

// Neighbor returns the coordinate adjacent to pos on side.
func Neighbor(pos Vec3i, side Side) Vec3i {
	return pos.Add(side.Direction())
}

// ParseSide accepts a side name ("up", "west", ...).
func ParseSide(name string) (Side, bool) {
	for i, n := range sideNames {
		if n == name {
			return Side(i), true
		}
	}
	return AnySide, false
}
