package scene

import "fmt"

// Selection identifies which cones spin during animation: either every
// cone at once or a single cone by its pre-order index.
//
// The zero value selects all cones.
type Selection struct {
	single bool
	cone   int
}

// SelectAll returns the selection covering every cone.
func SelectAll() Selection { return Selection{} }

// SelectCone returns the selection naming the single cone with the given
// pre-order index.
func SelectCone(index int) Selection { return Selection{single: true, cone: index} }

// All reports whether every cone is selected.
func (s Selection) All() bool { return !s.single }

// Cone returns the selected cone index and true for a single selection,
// or 0 and false when all cones are selected.
func (s Selection) Cone() (int, bool) { return s.cone, s.single }

// Matches reports whether the cone with the given index is selected:
// always true when all cones are, otherwise only for the named index.
func (s Selection) Matches(index int) bool { return !s.single || s.cone == index }

// Cycle advances the selection ring: all cones, cone 0, cone 1, …, the
// last cone, then back to all. Cycling with no cones returns s unchanged,
// so a tree of bare leaves never traps the selection.
func (s Selection) Cycle(totalCones int) Selection {
	if totalCones <= 0 {
		return s
	}
	switch {
	case !s.single:
		return SelectCone(0)
	case s.cone < totalCones-1:
		return SelectCone(s.cone + 1)
	default:
		return SelectAll()
	}
}

// Clamp resets single selections whose index no longer names a cone back
// to all. Numeric selections survive re-layout only while in range.
func (s Selection) Clamp(totalCones int) Selection {
	if s.single && (s.cone < 0 || s.cone >= totalCones) {
		return SelectAll()
	}
	return s
}

// String returns "all" or "cone N".
func (s Selection) String() string {
	if !s.single {
		return "all"
	}
	return fmt.Sprintf("cone %d", s.cone)
}
