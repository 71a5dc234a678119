package scene

import (
	"math"
	"time"

	"github.com/matzehuels/conetree/pkg/geometry"
)

// TickInterval is the frame clock period the spin rates are calibrated
// for: 50 frames per second.
const TickInterval = 20 * time.Millisecond

// Spin rates in degrees per tick at speed 1.0.
const (
	// SceneSpinRate orbits the whole scene while every cone is selected.
	SceneSpinRate = 1.0
	// AllConesSpinRate spins every cone during the all-cones selection.
	AllConesSpinRate = 2.5
	// SingleConeSpinRate spins the one selected cone, fast enough to
	// read at a glance which cone is selected.
	SingleConeSpinRate = 4.0
)

// Speed multiplier bounds and adjustment factors.
const (
	MinSpeed = 0.1
	MaxSpeed = 10.0

	speedDownFactor = 0.8
	speedUpFactor   = 1.25
)

// Animation is the spin clock. Angles are in degrees, wrapped into
// [0, 360), and advance only while Enabled. SceneSpinDeg and
// AllConesSpinDeg advance together during the all-cones selection;
// SingleConeSpinDeg advances alone when one cone is selected, so a cone
// keeps its pose while a different cone spins.
type Animation struct {
	Enabled bool
	Speed   float64 // rate multiplier, clamped to [MinSpeed, MaxSpeed]

	SceneSpinDeg      float64 // cumulative whole-scene orbit
	AllConesSpinDeg   float64 // shared spin angle for all cones
	SingleConeSpinDeg float64 // spin angle for a single selected cone
}

// NewAnimation returns a stopped clock at normal speed.
func NewAnimation() Animation { return Animation{Speed: 1} }

// Tick advances the spin angles by one frame for the given selection and
// returns the scene orbit delta in degrees, so the caller can turn the
// camera by the same amount. The delta is 0 whenever the scene does not
// orbit: clock disabled or a single cone selected.
func (a *Animation) Tick(sel Selection) float64 {
	if !a.Enabled {
		return 0
	}
	if sel.All() {
		delta := SceneSpinRate * a.Speed
		a.SceneSpinDeg = geometry.WrapDeg(a.SceneSpinDeg + delta)
		a.AllConesSpinDeg = geometry.WrapDeg(a.AllConesSpinDeg + AllConesSpinRate*a.Speed)
		return delta
	}
	a.SingleConeSpinDeg = geometry.WrapDeg(a.SingleConeSpinDeg + SingleConeSpinRate*a.Speed)
	return 0
}

// SlowDown lowers the speed multiplier by one step, stopping at MinSpeed.
func (a *Animation) SlowDown() { a.Speed = math.Max(MinSpeed, a.Speed*speedDownFactor) }

// SpeedUp raises the speed multiplier by one step, capping at MaxSpeed.
func (a *Animation) SpeedUp() { a.Speed = math.Min(MaxSpeed, a.Speed*speedUpFactor) }
