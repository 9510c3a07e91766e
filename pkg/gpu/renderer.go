//go:build gl

package gpu

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/render"
	"github.com/taigrr/ott/pkg/scene"
)

type meshBuffer struct {
	vao, vbo uint32
	count    int32
}

// Renderer owns a GLFW window and its GL context. All methods must be
// called from the goroutine that created it.
type Renderer struct {
	win  *glfw.Window
	log  *slog.Logger
	in   *input.State
	prog *Program

	meshes map[scene.Handle]*meshBuffer

	blit    *Program
	blitVAO uint32
	blitTex uint32
}

// NewRenderer opens a window with an OpenGL 4.1 core context. It locks the
// calling goroutine to its OS thread.
func NewRenderer(opts Options) (*Renderer, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("init gl: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	r := &Renderer{
		win:    win,
		log:    log,
		in:     opts.Input,
		meshes: make(map[scene.Handle]*meshBuffer),
	}
	if r.prog, err = Compile(sceneVertexShader, sceneFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("scene program: %w", err)
	}
	if r.blit, err = Compile(blitVertexShader, blitFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("blit program: %w", err)
	}
	gl.GenVertexArrays(1, &r.blitVAO)
	gl.GenTextures(1, &r.blitTex)
	gl.BindTexture(gl.TEXTURE_2D, r.blitTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	if r.in != nil {
		r.bindInput()
	}
	return r, nil
}

// Size returns the framebuffer size in pixels.
func (r *Renderer) Size() (width, height int) {
	return r.win.GetFramebufferSize()
}

// ShouldClose reports whether the user asked to close the window.
func (r *Renderer) ShouldClose() bool { return r.win.ShouldClose() }

// PollEvents processes pending window events.
func (r *Renderer) PollEvents() { glfw.PollEvents() }

// DrawScene renders s with the GPU and swaps buffers. Objects are uploaded
// the first time they are seen; buffers of removed objects are freed. It
// returns the number of triangles submitted.
func (r *Renderer) DrawScene(s *scene.Scene) (int, error) {
	s.Update()

	width, height := r.Size()
	gl.Viewport(0, 0, int32(width), int32(height))
	bg := render.LightFromColor(s.Background)
	gl.ClearColor(float32(bg.R), float32(bg.G), float32(bg.B), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// The view matrix mirrors Z, so front faces wind clockwise on screen.
	gl.FrontFace(gl.CW)
	if s.Culling {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	if s.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	r.prog.Use()
	if err := r.setLights(s.Lights); err != nil {
		return 0, err
	}
	if err := r.prog.SetUniform("viewProj", Mat4(s.Camera.ViewProjectionMatrix())); err != nil {
		return 0, err
	}

	seen := make(map[scene.Handle]bool, s.Len())
	triangles := 0
	for h, o := range s.All() {
		seen[h] = true
		if !o.Visible() || len(o.Polygons()) == 0 {
			continue
		}
		mb := r.meshes[h]
		if mb == nil {
			mb = r.upload(o)
			r.meshes[h] = mb
		}
		world := o.World()
		if err := r.prog.SetUniform("model", Mat4(world.Mat4())); err != nil {
			return 0, err
		}
		if err := r.prog.SetUniform("normalMat", normalMatrix(world)); err != nil {
			return 0, err
		}
		gl.BindVertexArray(mb.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, mb.count)
		triangles += int(mb.count / 3)
	}
	for h, mb := range r.meshes {
		if !seen[h] {
			r.free(mb)
			delete(r.meshes, h)
		}
	}

	r.win.SwapBuffers()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return triangles, fmt.Errorf("gl error 0x%x", code)
	}
	return triangles, nil
}

func (r *Renderer) setLights(lights []render.LightSource) error {
	us := lightUniforms(lights)
	if err := r.prog.SetUniform("lightCount", len(us)); err != nil {
		return err
	}
	for i, u := range us {
		idx := fmt.Sprintf("[%d]", i)
		for _, set := range []struct {
			name  string
			value any
		}{
			{"lightKind", u.Kind},
			{"lightPos", u.Pos},
			{"lightDir", u.Dir},
			{"lightColor", u.Color},
			{"lightOpening", u.Opening},
		} {
			if err := r.prog.SetUniform(set.name+idx, set.value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) upload(o *scene.Object) *meshBuffer {
	data := packObject(o)
	mb := &meshBuffer{count: int32(len(data) / floatsPerVertex)}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)
	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	const stride = floatsPerVertex * 4
	for i, name := range []string{"position", "normal", "albedo"} {
		loc := r.prog.Attrib(name)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 3, gl.FLOAT, false, stride, gl.PtrOffset(i*3*4))
	}
	r.log.Debug("object uploaded", "object", o.Name, "vertices", mb.count)
	return mb
}

func (r *Renderer) free(mb *meshBuffer) {
	gl.DeleteBuffers(1, &mb.vbo)
	gl.DeleteVertexArrays(1, &mb.vao)
}

// Present implements render.Presenter by drawing a software frame over the
// whole window.
func (r *Renderer) Present(fb *render.Framebuffer) error {
	if len(fb.Pixels) == 0 {
		return nil
	}
	width, height := r.Size()
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.blitTex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(fb.Width), int32(fb.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&fb.Pixels[0].R))

	r.blit.Use()
	if err := r.blit.SetUniform("frame", 0); err != nil {
		return err
	}
	gl.BindVertexArray(r.blitVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	r.win.SwapBuffers()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Close frees GL resources and terminates GLFW.
func (r *Renderer) Close() {
	for h, mb := range r.meshes {
		r.free(mb)
		delete(r.meshes, h)
	}
	if r.prog != nil {
		r.prog.Delete()
	}
	if r.blit != nil {
		r.blit.Delete()
		gl.DeleteTextures(1, &r.blitTex)
		gl.DeleteVertexArrays(1, &r.blitVAO)
	}
	r.win.Destroy()
	glfw.Terminate()
}

var glfwKeyNames = map[glfw.Key]string{
	glfw.KeyUp:        "up",
	glfw.KeyDown:      "down",
	glfw.KeyLeft:      "left",
	glfw.KeyRight:     "right",
	glfw.KeySpace:     "space",
	glfw.KeyEscape:    "esc",
	glfw.KeyEnter:     "enter",
	glfw.KeyTab:       "tab",
	glfw.KeyBackspace: "backspace",
}

var glfwButtons = map[glfw.MouseButton]input.Button{
	glfw.MouseButtonLeft:   input.ButtonLeft,
	glfw.MouseButtonMiddle: input.ButtonMiddle,
	glfw.MouseButtonRight:  input.ButtonRight,
}

func keyName(key glfw.Key, scancode int) string {
	if name, ok := glfwKeyNames[key]; ok {
		return name
	}
	return glfw.GetKeyName(key, scancode)
}

// bindInput forwards GLFW callbacks into the input state. Positions are in
// screen coordinates.
func (r *Renderer) bindInput() {
	in := r.in
	r.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		name := keyName(key, scancode)
		if name == "" {
			return
		}
		switch action {
		case glfw.Press:
			if mods&glfw.ModControl != 0 {
				in.Trigger("ctrl+" + name)
				return
			}
			in.PressKey(name)
		case glfw.Repeat:
			in.PressKey(name)
		case glfw.Release:
			in.ReleaseKey(name)
		}
	})
	r.win.SetCharCallback(func(_ *glfw.Window, ch rune) {
		in.Trigger(string(ch))
	})
	r.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		in.MoveMouse(int(x), int(y))
	})
	r.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if btn, ok := glfwButtons[button]; ok {
			in.SetButton(btn, action == glfw.Press)
		}
	})
	r.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		switch {
		case yoff > 0:
			in.Scroll(1)
		case yoff < 0:
			in.Scroll(-1)
		}
	})
	r.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		in.Resize(width, height)
	})
}
