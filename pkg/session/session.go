// Package session persists viewer state between runs.
//
// A session captures the restorable parts of a viewer: layout mode,
// selection, animation clock, and camera. The interactive viewer saves a
// session on exit and restores it the next time the same document is
// opened (matched by document content hash); serve mode exposes sessions
// over the API so a client can park and resume a view by ID.
//
// Two backends implement the [Store] interface:
//   - file: JSON files in a config directory, for the CLI
//   - mongo: a MongoDB collection, for multi-instance serve mode
//
// # Usage
//
// Save the current viewer state:
//
//	sess := session.New("maps/project.mm", docHash, session.FromViewer(v), 0)
//	store.Set(ctx, sess)
//
// Restore it later:
//
//	sess, err := store.GetByDocument(ctx, docHash)
//	if err == nil {
//	    sess.State.Apply(v)
//	}
package session

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/conetree/pkg/geometry"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/scene"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the default session duration for serve mode.
// CLI viewer sessions are stored with a zero TTL and never expire.
const DefaultTTL = 24 * time.Hour

// Session stores one viewer-state snapshot.
type Session struct {
	ID        string    `json:"id" bson:"_id"`
	Document  string    `json:"document,omitempty" bson:"document,omitempty"`   // source path or URL
	DocHash   string    `json:"doc_hash,omitempty" bson:"doc_hash,omitempty"`   // content hash for resume lookup
	State     State     `json:"state" bson:"state"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates a session with a fresh UUID.
// A zero TTL creates a session that never expires.
func New(document, docHash string, state State, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Document:  document,
		DocHash:   docHash,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// IsExpired returns true if the session has exceeded its TTL.
// Sessions without an expiration never expire.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch refreshes the update timestamp. Call before saving.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// GetByDocument retrieves the most recently updated session for a
	// document content hash. Returns ErrNotFound if none exists.
	GetByDocument(ctx context.Context, docHash string) (*Session, error)

	// Set stores a session, replacing any session with the same ID.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// State is the restorable subset of a viewer.
type State struct {
	Axis         string `json:"axis" bson:"axis"`
	Proportional bool   `json:"proportional" bson:"proportional"`

	// SelectedCone is nil when every cone is selected.
	SelectedCone *int `json:"selected_cone,omitempty" bson:"selected_cone,omitempty"`

	Animation AnimationState `json:"animation" bson:"animation"`
	Camera    CameraState    `json:"camera" bson:"camera"`
}

// AnimationState mirrors the spin clock.
type AnimationState struct {
	Enabled           bool    `json:"enabled" bson:"enabled"`
	Speed             float64 `json:"speed" bson:"speed"`
	SceneSpinDeg      float64 `json:"scene_spin_deg" bson:"scene_spin_deg"`
	AllConesSpinDeg   float64 `json:"all_cones_spin_deg" bson:"all_cones_spin_deg"`
	SingleConeSpinDeg float64 `json:"single_cone_spin_deg" bson:"single_cone_spin_deg"`
}

// CameraState mirrors the camera.
type CameraState struct {
	YawDeg   float64 `json:"yaw_deg" bson:"yaw_deg"`
	PitchDeg float64 `json:"pitch_deg" bson:"pitch_deg"`
	Zoom     float64 `json:"zoom" bson:"zoom"`
	PanX     float64 `json:"pan_x" bson:"pan_x"`
	PanY     float64 `json:"pan_y" bson:"pan_y"`
}

// FromViewer captures the restorable parts of a viewer state.
func FromViewer(v *scene.ViewerState) State {
	st := State{
		Axis:         v.Params.Axis.String(),
		Proportional: v.Params.Proportional,
		Animation: AnimationState{
			Enabled:           v.Anim.Enabled,
			Speed:             v.Anim.Speed,
			SceneSpinDeg:      v.Anim.SceneSpinDeg,
			AllConesSpinDeg:   v.Anim.AllConesSpinDeg,
			SingleConeSpinDeg: v.Anim.SingleConeSpinDeg,
		},
		Camera: CameraState{
			YawDeg:   v.Camera.YawDeg,
			PitchDeg: v.Camera.PitchDeg,
			Zoom:     v.Camera.Zoom,
			PanX:     v.Camera.PanX,
			PanY:     v.Camera.PanY,
		},
	}
	if i, ok := v.Selection.Cone(); ok {
		st.SelectedCone = &i
	}
	return st
}

// Apply restores the captured state onto a viewer and re-runs layout.
// Out-of-range values from old or hand-edited sessions are corrected:
// the selection is clamped against the cone count, speed against its
// bounds, angles wrapped, and a missing zoom falls back to the default.
func (st State) Apply(v *scene.ViewerState) error {
	axis, err := layout.ParseAxis(st.Axis)
	if err != nil {
		return err
	}
	v.Params.Axis = axis
	v.Params.Proportional = st.Proportional

	if st.SelectedCone != nil {
		v.Selection = scene.SelectCone(*st.SelectedCone)
	} else {
		v.Selection = scene.SelectAll()
	}

	v.Anim.Enabled = st.Animation.Enabled
	v.Anim.Speed = math.Min(math.Max(st.Animation.Speed, scene.MinSpeed), scene.MaxSpeed)
	v.Anim.SceneSpinDeg = geometry.WrapDeg(st.Animation.SceneSpinDeg)
	v.Anim.AllConesSpinDeg = geometry.WrapDeg(st.Animation.AllConesSpinDeg)
	v.Anim.SingleConeSpinDeg = geometry.WrapDeg(st.Animation.SingleConeSpinDeg)

	zoom := st.Camera.Zoom
	if zoom == 0 {
		zoom = geometry.DefaultZoom
	}
	v.Camera = geometry.Camera{
		YawDeg:   st.Camera.YawDeg,
		PitchDeg: st.Camera.PitchDeg,
		Zoom:     math.Max(zoom, geometry.MinZoom),
		PanX:     st.Camera.PanX,
		PanY:     st.Camera.PanY,
	}

	v.Relayout()
	return nil
}
