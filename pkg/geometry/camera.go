package geometry

import "math"

// Camera defaults and limits.
const (
	// DefaultZoom is the initial zoom level for a fresh camera.
	DefaultZoom = 20.0
	// MinZoom is the closest the camera can move to the scene.
	MinZoom = 5.0
	// ZoomStep is the zoom change applied by one ZoomIn or ZoomOut call.
	ZoomStep = 1.5
	// DefaultFOVDeg is the vertical field of view used when a Projection
	// does not specify one.
	DefaultFOVDeg = 45.0

	nearPlane = 0.1
)

// Camera describes an orbit view of the scene origin. Yaw turns the scene
// around the world y axis, pitch around the world x axis; pan shifts the
// view in camera space and Zoom controls the viewing distance. The eye
// sits at distance 2*Zoom from the origin.
//
// The zero value has Zoom 0 and is unusable; start from NewCamera.
type Camera struct {
	YawDeg   float64 // orbit around the world y axis, degrees
	PitchDeg float64 // orbit around the world x axis, degrees
	Zoom     float64 // viewing distance control, never below MinZoom
	PanX     float64 // horizontal view offset in camera space
	PanY     float64 // vertical view offset in camera space
}

// NewCamera returns a camera at the default distance, centered on the
// origin with no rotation.
func NewCamera() Camera { return Camera{Zoom: DefaultZoom} }

// Orbit turns the camera by the given yaw and pitch deltas in degrees.
// Angles accumulate without wrapping so continuous orbits stay smooth.
func (c *Camera) Orbit(dYawDeg, dPitchDeg float64) {
	c.YawDeg += dYawDeg
	c.PitchDeg += dPitchDeg
}

// Pan shifts the view by (dx, dy) in camera space. Positive dy moves the
// scene up on screen.
func (c *Camera) Pan(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

// ZoomIn moves the eye one ZoomStep closer, stopping at MinZoom.
func (c *Camera) ZoomIn() { c.Zoom = math.Max(MinZoom, c.Zoom-ZoomStep) }

// ZoomOut moves the eye one ZoomStep further away. There is no upper bound.
func (c *Camera) ZoomOut() { c.Zoom += ZoomStep }

// Reset restores the default view.
func (c *Camera) Reset() { *c = NewCamera() }

// EyeSpace transforms a world position into camera space: yaw first, then
// pitch, then the pan and distance translation. The camera looks down the
// negative z axis, so visible points end up with negative Z.
func (c Camera) EyeSpace(p Vec3) Vec3 {
	q := RotateY(p, -c.YawDeg)
	q = RotateX(q, c.PitchDeg)
	return q.Add(Vec3{X: c.PanX, Y: c.PanY, Z: -2 * c.Zoom})
}

// Projection describes the viewport a camera projects onto. Width and
// Height are in output units (pixels for SVG, cells for a terminal).
type Projection struct {
	Width  float64 // viewport width, must be positive
	Height float64 // viewport height, must be positive
	FOVDeg float64 // vertical field of view; DefaultFOVDeg when zero
}

func (vp Projection) focal() float64 {
	fov := vp.FOVDeg
	if fov == 0 {
		fov = DefaultFOVDeg
	}
	return 1 / math.Tan(Radians(fov)/2)
}

// Project maps a world position to viewport coordinates and depth.
// Depth grows with distance from the eye; primitives sorted by descending
// depth paint back-to-front. ok is false when the point lies on or behind
// the near plane, in which case x and y are meaningless.
func (c Camera) Project(p Vec3, vp Projection) (x, y, depth float64, ok bool) {
	eye := c.EyeSpace(p)
	depth = -eye.Z
	if depth <= nearPlane {
		return 0, 0, depth, false
	}
	f := vp.focal()
	aspect := vp.Width / vp.Height
	ndcX := f / aspect * eye.X / depth
	ndcY := f * eye.Y / depth
	x = (ndcX + 1) / 2 * vp.Width
	y = (1 - ndcY) / 2 * vp.Height
	return x, y, depth, true
}

// ProjectRadius returns the on-screen size of a world-space radius seen at
// the given depth. Returns 0 for depths at or inside the near plane.
func (c Camera) ProjectRadius(r, depth float64, vp Projection) float64 {
	if depth <= nearPlane {
		return 0
	}
	return vp.focal() * r / depth * vp.Height / 2
}
