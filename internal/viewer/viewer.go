// Package viewer implements the interactive armature viewer loop.
package viewer

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/armature/internal/config"
	"github.com/Faultbox/armature/internal/engine/camera"
	"github.com/Faultbox/armature/internal/engine/capture"
	"github.com/Faultbox/armature/internal/engine/input"
	"github.com/Faultbox/armature/internal/engine/lines"
	"github.com/Faultbox/armature/internal/engine/window"
	"github.com/Faultbox/armature/internal/scene"
	"github.com/Faultbox/armature/pkg/ik"
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// Viewer owns the window, the demo scene and the solver driving it.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window *window.Window
	input  *input.Input
	camera *camera.OrbitCamera
	lines  *lines.Renderer

	root     *skeleton.Node
	hips     *skeleton.Node
	solver   *ik.Solver
	settings ik.Settings
	targets  *scene.TargetRig
	phase    float32

	width, height  int
	drawDebug      bool
	paused         bool
	running        bool
	wantScreenshot bool
}

// New creates the viewer. The scene comes from cfg.Rig: an empty path
// means the built-in full-body rig, otherwise the rig description file
// is loaded and resolved against the demo humanoid.
func New(cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	v := &Viewer{
		cfg:       cfg,
		log:       log,
		width:     cfg.Graphics.Width,
		height:    cfg.Graphics.Height,
		drawDebug: cfg.Rig.DrawDebug,
	}

	// Create window (this also creates the OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      "Armature Viewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Initialize OpenGL (AFTER window, since the context must exist)
	if err := gl.Init(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	v.lines, err = lines.New(log)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create line renderer: %w", err)
	}

	v.input = input.New()

	v.camera = camera.NewOrbitCamera()
	v.camera.Distance = cfg.Camera.Distance
	v.camera.SetCenter(math.Vec3{Y: cfg.Camera.Height})

	if err := v.buildScene(); err != nil {
		v.lines.Close()
		v.window.Close()
		return nil, err
	}

	log.Info("viewer initialized")
	return v, nil
}

// buildScene creates the humanoid, its targets and the solver.
func (v *Viewer) buildScene() error {
	v.root, v.targets = scene.New()
	v.hips = v.root.FindDescendant(skeleton.BoneHips)

	v.settings = ik.DefaultSettings()
	v.settings.ContinuousRotations = true

	var components []ik.Component
	if v.cfg.Rig.Path != "" {
		rc, err := ik.LoadRigConfig(v.cfg.Rig.Path)
		if err != nil {
			return fmt.Errorf("loading rig from %s: %w", v.cfg.Rig.Path, err)
		}
		components, err = rc.Build()
		if err != nil {
			return fmt.Errorf("building rig from %s: %w", v.cfg.Rig.Path, err)
		}
		v.settings = rc.Settings
	} else {
		components = scene.DefaultComponents()
	}

	v.solver = ik.New(v.root, ik.WithLogger(v.log))
	for _, c := range components {
		v.solver.Add(c)
	}
	return nil
}

// Run starts the viewer loop and blocks until quit.
func (v *Viewer) Run() error {
	v.running = true

	var frameDur time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameDur = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.handleHeldKeys()

		// 2. Animate targets and solve
		v.update(dt)

		// 3. Render
		v.render()

		// Screenshots read the back buffer, so before the swap
		if v.wantScreenshot {
			v.saveScreenshot()
			v.wantScreenshot = false
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameDur > 0 {
			if elapsed := time.Since(now); elapsed < frameDur {
				time.Sleep(frameDur - elapsed)
			}
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.lines != nil {
		v.lines.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvents() {
	for _, ev := range v.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			v.width, v.height = ev.Width, ev.Height
			gl.Viewport(0, 0, int32(ev.Width), int32(ev.Height))

		case input.EventKeyDown:
			switch ev.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_SPACE:
				v.paused = !v.paused
			case sdl.SCANCODE_TAB:
				v.drawDebug = !v.drawDebug
			case sdl.SCANCODE_R:
				min, max := skeletonBounds(v.root)
				v.camera.FitToBounds(min, max)
			case sdl.SCANCODE_F12:
				v.wantScreenshot = true
			}

		case input.EventMouseMove:
			if v.input.IsMouseDown(sdl.BUTTON_LEFT) {
				v.camera.HandleDrag(float32(ev.RelX), float32(ev.RelY))
			}

		case input.EventMouseWheel:
			v.camera.HandleZoom(ev.WheelY)
		}
	}
}

// handleHeldKeys pans the camera while WASD/QE are held.
func (v *Viewer) handleHeldKeys() {
	keys := sdl.GetKeyboardState()

	var forward, right, up float32
	if keys[sdl.SCANCODE_W] != 0 {
		forward++
	}
	if keys[sdl.SCANCODE_S] != 0 {
		forward--
	}
	if keys[sdl.SCANCODE_D] != 0 {
		right++
	}
	if keys[sdl.SCANCODE_A] != 0 {
		right--
	}
	if keys[sdl.SCANCODE_E] != 0 {
		up++
	}
	if keys[sdl.SCANCODE_Q] != 0 {
		up--
	}

	if forward != 0 || right != 0 || up != 0 {
		v.camera.HandleMovement(forward, right, up)
	}
}

func (v *Viewer) update(dt float64) {
	if !v.paused {
		v.phase += float32(dt) * v.cfg.Rig.TargetSpeed
		v.targets.Pose(v.phase)
	}
	v.solver.Step(v.settings)
}

func (v *Viewer) render() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	v.lines.Begin()
	drawGrid(v.lines)
	drawSkeleton(v.lines, v.hips)
	if v.drawDebug {
		v.solver.DrawDebug(v.lines)
	}

	aspect := float32(v.width) / float32(v.height)
	proj := math.Perspective(math.DegToRad(v.cfg.Camera.FOV), aspect, 0.01, 100)
	viewProj := proj.Mul(v.camera.ViewMatrix())
	v.lines.Flush(viewProj)
}

func (v *Viewer) saveScreenshot() {
	pixels := make([]byte, v.width*v.height*4)
	gl.ReadPixels(0, 0, int32(v.width), int32(v.height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))

	path, err := capture.SavePNG(pixels, v.width, v.height, "screenshots", "pose")
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}
