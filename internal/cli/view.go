package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conetree/pkg/cache"
	"github.com/matzehuels/conetree/pkg/geometry"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/observability"
	"github.com/matzehuels/conetree/pkg/pipeline"
	"github.com/matzehuels/conetree/pkg/render"
	"github.com/matzehuels/conetree/pkg/render/term"
	"github.com/matzehuels/conetree/pkg/scene"
	"github.com/matzehuels/conetree/pkg/session"
)

// orbitStep is the camera orbit increment per arrow key press, degrees.
const orbitStep = 5.0

// panStep is the camera pan increment per key press, world units.
const panStep = 0.5

// viewCommand creates the view command for the interactive viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noCache   bool
		noSession bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "view <document>",
		Short: "Explore a mind map in the interactive terminal viewer",
		Long: `Explore a mind map in the interactive terminal viewer.

The viewer projects the 3D cone tree onto the terminal and animates it
at 50 frames per second.

Keys:
  v / h    vertical / horizontal layout axis
  p        toggle proportional spacing
  c        cycle cone selection (all, 0, 1, ..., all)
  a        start/stop animation
  [ / ]    slow down / speed up
  arrows   orbit the camera
  + / -    zoom in / out
  H J K L  pan the camera
  r        reset the camera
  q        quit

The viewer state is saved on exit and restored the next time the same
document is opened. Use --no-session to start fresh.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Document = args[0]
			return c.runView(cmd.Context(), opts, noCache, noSession)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noSession, "no-session", false, "do not restore or save the viewer session")
	cmd.Flags().StringVarP(&opts.Axis, "axis", "a", opts.Axis, "layout axis: vertical (default), horizontal")
	cmd.Flags().BoolVar(&opts.Proportional, "proportional", opts.Proportional, "size angular slices by subtree weight")

	return cmd
}

// runView parses the document, restores any saved session, and runs the
// viewer program.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache, noSession bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	tree, err := runner.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.Document, err)
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	viewer, err := scene.NewViewerState(tree, opts.LayoutParams())
	if err != nil {
		return err
	}
	if c.Config.Viewer.AutoSpin {
		viewer.Anim.Enabled = true
	}
	viewer.Anim.Speed = c.Config.Viewer.Speed

	var store session.Store
	var sess *session.Session
	docHash := hashTree(tree)

	if !noSession {
		store, err = c.newSessionStore(ctx)
		if err != nil {
			printWarning("Sessions disabled: %v", err)
		} else {
			defer store.Close()
			sess = c.restoreSession(ctx, store, docHash, viewer)
		}
	}

	model := newViewerModel(viewer)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}

	if store != nil {
		m := final.(viewerModel)
		c.saveSession(ctx, store, sess, opts.Document, docHash, m.viewer)
	}
	return nil
}

// restoreSession applies the last saved session for the document, if any.
func (c *CLI) restoreSession(ctx context.Context, store session.Store, docHash string, viewer *scene.ViewerState) *session.Session {
	logger := loggerFromContext(ctx)

	sess, err := store.GetByDocument(ctx, docHash)
	if err != nil {
		return nil
	}
	if err := sess.State.Apply(viewer); err != nil {
		logger.Warn("ignoring saved session", "id", sess.ID, "error", err)
		return nil
	}
	observability.Viewer().OnSessionRestored(ctx, sess.ID)
	logger.Debug("restored session", "id", sess.ID)
	return sess
}

// saveSession stores the viewer state, reusing the restored session's ID
// when there is one. CLI sessions never expire.
func (c *CLI) saveSession(ctx context.Context, store session.Store, sess *session.Session, document, docHash string, viewer *scene.ViewerState) {
	logger := loggerFromContext(ctx)

	state := session.FromViewer(viewer)
	if sess == nil {
		sess = session.New(document, docHash, state, 0)
		observability.Viewer().OnSessionCreated(ctx, sess.ID)
	} else {
		sess.State = state
		sess.Touch()
	}

	if err := store.Set(ctx, sess); err != nil {
		logger.Warn("could not save session", "error", err)
		return
	}
	logger.Debug("saved session", "id", sess.ID)
}

// hashTree returns the content hash used to match sessions to documents.
func hashTree(tree *mindmap.Node) string {
	var buf bytes.Buffer
	if err := treeio.WriteTree(tree, &buf); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// =============================================================================
// Viewer Model
// =============================================================================

// tickMsg carries one frame clock tick.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(scene.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// viewerModel is the bubbletea model for the interactive viewer. All
// state mutation happens inside Update, so the single-writer rule for
// the viewer state holds by construction.
type viewerModel struct {
	viewer *scene.ViewerState
	cols   int
	rows   int
}

func newViewerModel(viewer *scene.ViewerState) viewerModel {
	return viewerModel{viewer: viewer, cols: 80, rows: 24}
}

func (m viewerModel) Init() tea.Cmd {
	return tick()
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.viewer.Tick()
		return m, tick()

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m viewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.viewer
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "v":
		v.SetAxis(layout.Vertical)
	case "h":
		v.SetAxis(layout.Horizontal)
	case "p":
		v.ToggleSpacing()
	case "c":
		v.CycleSelection()
	case "a":
		v.ToggleAnimation()
	case "[":
		v.Anim.SlowDown()
	case "]":
		v.Anim.SpeedUp()
	case "left":
		v.Camera.Orbit(-orbitStep, 0)
	case "right":
		v.Camera.Orbit(orbitStep, 0)
	case "up":
		v.Camera.Orbit(0, -orbitStep)
	case "down":
		v.Camera.Orbit(0, orbitStep)
	case "+", "=":
		v.Camera.ZoomIn()
	case "-":
		v.Camera.ZoomOut()
	case "H":
		v.Camera.Pan(-panStep, 0)
	case "L":
		v.Camera.Pan(panStep, 0)
	case "K":
		v.Camera.Pan(0, panStep)
	case "J":
		v.Camera.Pan(0, -panStep)
	case "r":
		v.Camera.Reset()
	}
	return m, nil
}

func (m viewerModel) View() string {
	canvasRows := m.rows - 2
	if canvasRows < 4 {
		canvasRows = 4
	}

	frame := scene.ComputeFrame(m.viewer)
	// Project at double the row count: one terminal cell is roughly two
	// pixels tall, and the canvas halves y again.
	vp := geometry.Projection{
		Width:  float64(m.cols),
		Height: float64(canvasRows * 2),
	}
	s := render.Project(frame, m.viewer.Params.Axis, m.viewer.Camera, vp)

	return term.Draw(s, m.cols, canvasRows) + "\n" + m.statusLine()
}

// statusLine summarizes the viewer state under the canvas.
func (m viewerModel) statusLine() string {
	v := m.viewer

	anim := "paused"
	if v.Anim.Enabled {
		anim = fmt.Sprintf("spinning ×%.2f", v.Anim.Speed)
	}
	spacing := "uniform"
	if v.Params.Proportional {
		spacing = "proportional"
	}

	left := StyleTitle.Render(appName) + " " +
		StyleDim.Render(fmt.Sprintf("%s · %s · %s · %s",
			v.Params.Axis, spacing, v.Selection, anim))
	help := StyleDim.Render("v/h axis  p spacing  c select  a spin  [/] speed  r reset  q quit")
	return left + "\n" + help
}
