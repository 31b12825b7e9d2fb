// cube3d draws the twisty cube in a raylib window. Drag a sticker with the
// left mouse button to turn a layer; drag with the right button to orbit.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/config"
)

var (
	cfgPath string
	size    int
)

type app struct {
	ctrl  *twistycube.Controller
	scene *scene
	log   logrus.FieldLogger

	camera   rl.Camera3D
	yaw      float32
	pitch    float32
	distance float32

	difficulty twistycube.Difficulty
	ctx        context.Context
	cancel     context.CancelFunc
	scrambling chan error

	anchor *hit
	retry  *twistycube.ReleasePick
	hover  *hit
	status string
	solved bool
}

func main() {
	root := &cobra.Command{
		Use:          "cube3d",
		Short:        "Play the twisty cube in a 3D window",
		SilenceUsage: true,
		RunE:         run,
	}
	root.Flags().StringVar(&cfgPath, "config", "", "Config file (default: ~/.twistycube/config.yaml)")
	root.Flags().IntVarP(&size, "size", "n", 0, "Pieces per edge (overrides the config file)")
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if size > 0 {
		cfg.Size = size
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log := cfg.Logger()

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	sc := newScene()
	ctrl, err := twistycube.New(append(opts, twistycube.WithRenderer(sc), twistycube.WithLogger(log))...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := &app{
		ctrl:       ctrl,
		scene:      sc,
		log:        log,
		yaw:        0.6,
		pitch:      0.5,
		distance:   float32(ctrl.Geometry().HalfExtent() * 4.5),
		difficulty: cfg.DifficultyTier(),
		ctx:        ctx,
		cancel:     cancel,
	}
	ctrl.OnSolved(func(string) { a.solved = true })
	ctrl.OnMove(func(ev twistycube.MoveEvent) {
		log.WithFields(logrus.Fields{
			"move":   ev.Move.Notation(ctrl.Geometry()),
			"source": ev.Source,
		}).Debug("move completed")
	})

	rl.InitWindow(1024, 768, "twistycube")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(math.Round(float64(1e9) / float64(cfg.Frame()))))

	a.camera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}
	return nil
}

func (a *app) update() {
	a.ctrl.Tick()
	if a.retry != nil && !a.ctrl.Rotating() {
		a.release(*a.retry)
	}

	select {
	case err := <-a.scrambling:
		a.scrambling = nil
		if err != nil {
			a.status = err.Error()
		} else {
			a.status = fmt.Sprintf("Scrambled (%s)", a.difficulty)
		}
	default:
	}

	a.handleKeys()
	a.handleCamera()
	a.handlePointer()
}

func (a *app) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		a.difficulty = twistycube.Easy
	case rl.IsKeyPressed(rl.KeyTwo):
		a.difficulty = twistycube.Medium
	case rl.IsKeyPressed(rl.KeyThree):
		a.difficulty = twistycube.Hard
	case rl.IsKeyPressed(rl.KeyR):
		if a.scrambling == nil {
			a.reset()
		}
	case rl.IsKeyPressed(rl.KeyS):
		if a.scrambling != nil || a.ctrl.Rotating() {
			return
		}
		a.reset()
		a.status = fmt.Sprintf("Scrambling (%s)...", a.difficulty)
		done := make(chan error, 1)
		a.scrambling = done
		d := a.difficulty
		go func() { done <- a.ctrl.ScrambleDifficulty(a.ctx, d) }()
	}
}

func (a *app) reset() {
	for a.ctrl.Rotating() {
		a.ctrl.Tick()
	}
	if err := a.ctrl.Reset(); err != nil {
		a.status = err.Error()
		return
	}
	a.anchor, a.retry = nil, nil
	a.solved = false
	a.status = "New game"
}

func (a *app) handleCamera() {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		a.yaw -= d.X * 0.01
		a.pitch = clamp(a.pitch+d.Y*0.01, -1.5, 1.5)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.distance = clamp(a.distance*(1-wheel*0.1), 5, 200)
	}
	cp, sp := float32(math.Cos(float64(a.pitch))), float32(math.Sin(float64(a.pitch)))
	cy, sy := float32(math.Cos(float64(a.yaw))), float32(math.Sin(float64(a.yaw)))
	a.camera.Position = rl.Vector3{X: a.distance * cp * sy, Y: a.distance * sp, Z: a.distance * cp * cy}
	a.camera.Target = rl.Vector3{}
}

func (a *app) handlePointer() {
	if a.scrambling != nil {
		return
	}
	st := a.ctrl.Snapshot()
	ray := rl.GetMouseRay(rl.GetMousePosition(), a.camera)
	h, onPiece := pick(ray, st)
	a.hover = nil
	if onPiece {
		a.hover = &h
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.retry = nil
		if !onPiece {
			a.ctrl.CancelGesture()
			a.anchor = nil
			return
		}
		p, ok := a.ctrl.PickSticker(h.coord, h.face)
		if !ok {
			return
		}
		if err := a.ctrl.PointerDown(p); err != nil {
			a.status = err.Error()
			return
		}
		a.anchor = &h
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) && a.anchor != nil {
		if !onPiece {
			a.ctrl.CancelGesture()
			a.anchor = nil
			return
		}
		if rel, ok := a.ctrl.PickPiece(h.coord); ok {
			a.release(rel)
		}
	}
}

func (a *app) release(rel twistycube.ReleasePick) {
	_, err := a.ctrl.PointerUp(rel)
	switch {
	case errors.Is(err, twistycube.ErrMoveInFlight):
		a.retry = &rel
		return
	case err != nil && !twistycube.IsNoop(err):
		a.status = err.Error()
	default:
		a.status = ""
	}
	a.anchor, a.retry = nil, nil
}

func (a *app) draw() {
	st := a.ctrl.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

	rl.BeginMode3D(a.camera)
	hover := a.hover
	if a.anchor != nil {
		hover = a.anchor
	}
	a.scene.draw(st, hover)
	rl.EndMode3D()

	n := st.Geometry.Size
	progress := a.ctrl.Progress()
	rl.DrawText(fmt.Sprintf("%d×%d×%d  moves %d  faces %d/6  %s", n, n, n, st.Moves, progress.Solved, a.difficulty), 12, 12, 20, rl.RayWhite)
	if axis, angle, group := a.scene.pivot(); group > 0 {
		rl.DrawText(fmt.Sprintf("turning %s %.0f°", axis, angle*180/math.Pi), 12, 38, 18, rl.Gray)
	}
	switch {
	case a.solved && st.Moves > 0:
		rl.DrawText("SOLVED!", 12, 64, 28, rl.SkyBlue)
	case a.status != "":
		rl.DrawText(a.status, 12, 64, 18, rl.LightGray)
	}
	rl.DrawText("left drag: turn  right drag: orbit  s: scramble  1/2/3: difficulty  r: reset", 12, int32(rl.GetScreenHeight())-28, 16, rl.Gray)

	rl.EndDrawing()
}

func clamp(v, lo, hi float32) float32 {
	return float32(math.Max(float64(lo), math.Min(float64(hi), float64(v))))
}
