package glbackend

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/clickrace/engine/assets"
	"github.com/hubastard/clickrace/engine/gfx/renderer2d"
	"github.com/hubastard/clickrace/engine/logx"
)

const batchVertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec4 aColor;
layout(location=2) in vec2 aUV;
layout(location=3) in float aTex;
uniform mat4 uVP;
out vec4 vColor;
out vec2 vUV;
flat out int vTex;
void main() {
    vColor = aColor;
    vUV = aUV;
    vTex = int(aTex + 0.5);
    gl_Position = uVP * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

// batchFragmentSource picks the sampler with a switch, since sampler
// arrays may only be indexed by constants in GLSL 3.30.
var batchFragmentSource = func() string {
	var b strings.Builder
	b.WriteString("#version 330 core\n")
	fmt.Fprintf(&b, "uniform sampler2D uTex[%d];\n", renderer2d.MaxTexSlots)
	b.WriteString("in vec4 vColor;\nin vec2 vUV;\nflat in int vTex;\nout vec4 FragColor;\n")
	b.WriteString("vec4 sampleTex(int i, vec2 uv) {\n    switch (i) {\n")
	for i := 0; i < renderer2d.MaxTexSlots; i++ {
		fmt.Fprintf(&b, "    case %d: return texture(uTex[%d], uv);\n", i, i)
	}
	b.WriteString("    }\n    return vec4(1.0);\n}\n")
	b.WriteString("void main() {\n    FragColor = vColor * sampleTex(vTex, vUV);\n}\n")
	return b.String() + "\x00"
}()

const effectVertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aLocal;
uniform mat4 uVP;
out vec2 vLocal;
void main() {
    vLocal = aLocal;
    gl_Position = uVP * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

// invertFragmentSource reads the source screen under the fragment.
const invertFragmentSource = `
#version 330 core
uniform sampler2D uScreen;
uniform vec2 uSize;
out vec4 FragColor;
void main() {
    vec4 c = texture(uScreen, gl_FragCoord.xy / uSize);
    FragColor = vec4(1.0 - c.rgb, 1.0);
}
` + "\x00"

// spriteFragmentSource draws a soft disc inscribed in the quad.
const spriteFragmentSource = `
#version 330 core
in vec2 vLocal;
uniform vec4 uColor;
out vec4 FragColor;
void main() {
    float d = length(vLocal);
    if (d > 1.0) discard;
    FragColor = vec4(uColor.rgb, uColor.a * (1.0 - smoothstep(0.8, 1.0, d)));
}
` + "\x00"

// loadSource prefers assets/shaders/<name> so shaders can be tweaked
// without a rebuild, and falls back to the built-in source.
func loadSource(m *assets.Manager, name, builtin string) string {
	if m == nil {
		return builtin
	}
	src, err := m.LoadShader(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logx.Logger().Warn("shader override unreadable, using built-in", "name", name, "err", err)
		}
		return builtin
	}
	logx.Logger().Debug("shader override loaded", "name", name)
	return src
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func uniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// checkError drains the GL error queue and reports the first one.
func checkError(op string) error {
	var first uint32
	for i := 0; i < 8; i++ {
		e := gl.GetError()
		if e == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = e
		}
	}
	if first != 0 {
		return fmt.Errorf("%s: gl error 0x%04x", op, first)
	}
	return nil
}
