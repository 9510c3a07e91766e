//go:build gl

package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked vertex and fragment shader pair.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// Compile compiles and links a program. Sources must be NUL terminated.
func Compile(vertexSrc, fragmentSrc string) (*Program, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(id, n, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}
	return &Program{id: id, uniforms: make(map[string]int32)}, nil
}

func compileShader(src string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(shader, n, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// Use makes p the current program.
func (p *Program) Use() { gl.UseProgram(p.id) }

// Attrib returns the location of a vertex attribute.
func (p *Program) Attrib(name string) uint32 {
	return uint32(gl.GetAttribLocation(p.id, gl.Str(name+"\x00")))
}

func (p *Program) location(name string) int32 {
	loc, ok := p.uniforms[name]
	if !ok {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
		p.uniforms[name] = loc
	}
	return loc
}

// SetUniform sets a uniform on p, which must be in use. Uniforms the
// driver optimized away are ignored.
func (p *Program) SetUniform(name string, value any) error {
	loc := p.location(name)
	if loc < 0 {
		return nil
	}
	switch v := value.(type) {
	case int:
		gl.Uniform1i(loc, int32(v))
	case int32:
		gl.Uniform1i(loc, v)
	case float32:
		gl.Uniform1f(loc, v)
	case float64:
		gl.Uniform1f(loc, float32(v))
	case mgl32.Vec3:
		gl.Uniform3fv(loc, 1, &v[0])
	case mgl32.Vec4:
		gl.Uniform4fv(loc, 1, &v[0])
	case mgl32.Mat3:
		gl.UniformMatrix3fv(loc, 1, false, &v[0])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	default:
		return fmt.Errorf("uniform %s: unsupported type %T", name, value)
	}
	return nil
}

// Delete releases the program.
func (p *Program) Delete() { gl.DeleteProgram(p.id) }
