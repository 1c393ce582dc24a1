// Package viewer hosts the interactive render loop: it builds a frame
// payload per iteration, drives the renderer lifecycle and presents the
// result through an OpenGL texture blit.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/log"
	"github.com/lyra-render/lyra/renderer"
	"github.com/lyra-render/lyra/scene"
	"github.com/lyra-render/lyra/types"
)

var logger = log.New("viewer")

const (
	// Coefficients for converting delta cursor movements to yaw/pitch
	// camera angles.
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005

	// Camera movement speed.
	cameraMoveSpeed float32 = 0.05

	// How long after the last input the view counts as interactive.
	interactionDecay = 250 * time.Millisecond
)

const (
	leftMouseButton  = 0
	rightMouseButton = 1
)

// Options configure the interactive viewer.
type Options struct {
	Title string

	// Channels requested per frame. Defaults to rgb+alpha.
	Channels core.ChannelSet

	// Window clear color. The renderer derives its background policy
	// from it.
	ClearColor types.Vec3

	// Per-frame time budget driving the interactive resolution scale.
	// Defaults to ~30 fps.
	FrameBudget time.Duration
}

// Viewer owns the window, the camera and the renderer it drives.
type Viewer struct {
	window    *glfw.Window
	fbTexture uint32
	texFbo    uint32

	rend   renderer.RayTracedRenderer
	camera *scene.Camera

	channels   core.ChannelSet
	clearColor types.Vec3
	scaler     *resScaler

	// input state
	lastCursorPos   types.Vec2
	mousePressed    [2]bool
	lastInteraction time.Time

	// datalayer overlay state
	showLayers bool
	layers     map[string]*core.PrimitivesPack
}

// New creates a window and wires the renderer to it. Must be called
// from the main OS thread (the caller locks it).
func New(rend renderer.RayTracedRenderer, camera *scene.Camera, opts Options) (*Viewer, error) {
	if camera == nil {
		return nil, renderer.ErrCameraNotDefined
	}

	channels := opts.Channels
	if len(channels) == 0 {
		channels = core.NewChannelSet(core.ChannelRGB, core.ChannelAlpha)
	}
	budget := opts.FrameBudget
	if budget == 0 {
		budget = 33 * time.Millisecond
	}
	title := opts.Title
	if title == "" {
		title = "lyra"
	}

	v := &Viewer{
		rend:       rend,
		camera:     camera,
		channels:   channels,
		clearColor: opts.ClearColor,
		scaler:     newResScaler(budget),
	}

	if err := v.initGL(title); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func (v *Viewer) initGL(title string) error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("viewer: failed to initialize glfw: %s", err.Error())
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	v.window, err = glfw.CreateWindow(v.camera.Width, v.camera.Height, title, nil, nil)
	if err != nil {
		return fmt.Errorf("viewer: could not create opengl window: %s", err.Error())
	}
	v.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("viewer: could not init opengl: %s", err.Error())
	}

	// Setup texture for image data
	gl.GenTextures(1, &v.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, v.fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(v.camera.Width), int32(v.camera.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &v.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, v.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Ortho projection for the overlay lines
	gl.Disable(gl.DEPTH_TEST)
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(v.camera.Width), float64(v.camera.Height), 0, -1, 1)
	gl.Viewport(0, 0, int32(v.camera.Width), int32(v.camera.Height))
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()

	// Bind event callbacks
	v.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	v.window.SetKeyCallback(v.onKeyEvent)
	v.window.SetMouseButtonCallback(v.onMouseEvent)
	v.window.SetCursorPosCallback(v.onCursorPosEvent)

	return nil
}

func (v *Viewer) Close() {
	if v.window != nil {
		v.window.SetShouldClose(true)
	}
	glfw.Terminate()
}

func (v *Viewer) interactive() bool {
	return time.Since(v.lastInteraction) < interactionDecay
}

// Run drives the per-frame lifecycle until the window closes. Each
// refresh builds a payload, then calls PreRender, Render over the
// camera's rays and PostRender; NeedsRefresh gates re-rendering so the
// view progressively refines to the target fidelity once interaction
// stops.
func (v *Viewer) Run() error {
	for !v.window.ShouldClose() {
		glfw.PollEvents()

		interactive := v.interactive()
		resX, resY := v.camera.Width, v.camera.Height
		if interactive {
			resX, resY = v.scaler.RenderRes(resX, resY)
		}

		payload := renderer.FramePayload{
			RenderResX:      resX,
			RenderResY:      resY,
			Camera:          v.camera,
			ClearColor:      v.clearColor,
			InteractiveMode: interactive,
			Channels:        v.channels,
		}

		if err := v.rend.PreRender(payload); err != nil {
			return err
		}

		if !interactive && !v.rend.NeedsRefresh(payload) {
			if v.showLayers && v.rend.NeedsRedraw() {
				v.layers = v.rend.RegenerateDataLayers()
				v.present(nil)
			}
			time.Sleep(5 * time.Millisecond)
			continue
		}

		frameStart := time.Now()
		rays := v.camera.GenerateRays(resX, resY)
		rb, err := v.rend.Render(rays)
		if err != nil {
			return err
		}
		v.rend.PostRender()

		if interactive {
			v.scaler.Observe(time.Since(frameStart))
		}

		if v.showLayers && v.rend.NeedsRedraw() {
			v.layers = v.rend.RegenerateDataLayers()
		}

		img, err := rb.RGBA()
		if err != nil {
			return err
		}
		v.present(img.Pix)
	}
	return nil
}

// present uploads new pixels (when given), blits the texture to the
// window framebuffer and draws the overlay.
func (v *Viewer) present(pix []uint8) {
	w, h := int32(v.camera.Width), int32(v.camera.Height)

	if pix != nil {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.BlitFramebuffer(0, 0, w, h, 0, h, w, 0, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	if v.showLayers {
		v.renderLayers()
	}

	v.window.SwapBuffers()
}

// renderLayers draws the datalayer line packs projected to screen space.
func (v *Viewer) renderLayers() {
	gl.LineWidth(1.0)
	gl.Begin(gl.LINES)
	for _, pack := range v.layers {
		for i := 0; i < pack.LineCount(); i++ {
			x0, y0, ok0 := v.camera.Project(pack.LineStarts[i])
			x1, y1, ok1 := v.camera.Project(pack.LineEnds[i])
			if !ok0 || !ok1 {
				continue
			}
			c := pack.LineColors[i]
			gl.Color4f(c[0], c[1], c[2], c[3])
			gl.Vertex2f(x0, y0)
			gl.Vertex2f(x1, y1)
		}
	}
	gl.End()
}

func (v *Viewer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	var moveDir scene.CameraDirection
	switch key {
	case glfw.KeyEscape:
		v.window.SetShouldClose(true)
		return
	case glfw.KeyUp:
		moveDir = scene.Forward
	case glfw.KeyDown:
		moveDir = scene.Backward
	case glfw.KeyLeft:
		moveDir = scene.Left
	case glfw.KeyRight:
		moveDir = scene.Right
	case glfw.KeyTab:
		v.showLayers = !v.showLayers
		if v.showLayers {
			v.layers = v.rend.RegenerateDataLayers()
			logger.Info("datalayer overlay enabled")
		}
		return
	default:
		return
	}

	// Double speed if shift is pressed
	var speedScaler float32 = 1.0
	if (mods & glfw.ModShift) == glfw.ModShift {
		speedScaler = 2.0
	}
	v.camera.Move(moveDir, speedScaler*cameraMoveSpeed)
	v.lastInteraction = time.Now()
}

func (v *Viewer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft && button != glfw.MouseButtonRight {
		return
	}

	v.mousePressed[leftMouseButton] = false
	v.mousePressed[rightMouseButton] = false

	if action == glfw.Press {
		xPos, yPos := w.GetCursorPos()
		v.lastCursorPos[0], v.lastCursorPos[1] = float32(xPos), float32(yPos)

		buttonIndex := leftMouseButton
		if button == glfw.MouseButtonRight {
			buttonIndex = rightMouseButton
		}

		v.mousePressed[buttonIndex] = true
	}
}

func (v *Viewer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !v.mousePressed[leftMouseButton] && !v.mousePressed[rightMouseButton] {
		return
	}

	// Calculate delta movement and apply mouse sensitivity
	newPos := types.XY(float32(xPos), float32(yPos))
	delta := v.lastCursorPos.Sub(newPos)
	delta[0] *= mouseSensitivityX
	delta[1] *= mouseSensitivityY
	v.lastCursorPos = newPos

	if v.mousePressed[leftMouseButton] {
		// The left mouse button rotates lookat around eye
		v.camera.Pitch = delta[1]
		v.camera.Yaw = delta[0]
		v.camera.Update()
		v.lastInteraction = time.Now()
	}
}
