package renderer

import (
	"fmt"

	"globe/internal/logger"

	"go.uber.org/zap"
)

// ShaderError reports a failed compile or link. Stage is "vertex", "fragment"
// or "link"; Log carries the driver diagnostic.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Stage == "link" {
		return fmt.Sprintf("shader program link failed: %s", e.Log)
	}
	return fmt.Sprintf("%s shader compile failed: %s", e.Stage, e.Log)
}

type AttribLocations struct {
	Position int32
	Normal   int32
	TexCoord int32
	Color    int32
}

type UniformLocations struct {
	Projection  int32
	ModelView   int32
	Normal      int32
	Directional int32
	UseTexture  int32
	Sampler     int32
}

// ProgramInfo is a linked program with its locations resolved once. It is not
// modified after NewProgram returns.
type ProgramInfo struct {
	Program  uint32
	Attribs  AttribLocations
	Uniforms UniformLocations

	dev Device
}

// NewProgram compiles both stages, links them and resolves every location the
// globe shaders use. Any failure leaves no GPU objects behind.
func NewProgram(dev Device, vertexSource, fragmentSource string) (*ProgramInfo, error) {
	vs, err := compileStage(dev, VertexStage, vertexSource)
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(vs)

	fs, err := compileStage(dev, FragmentStage, fragmentSource)
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(fs)

	program, log, ok := dev.LinkProgram(vs, fs)
	if !ok {
		dev.DeleteProgram(program)
		logger.Log.Error("Failed to link program", zap.String("log", log))
		return nil, &ShaderError{Stage: "link", Log: log}
	}
	logger.Log.Info("Shader program linked", zap.Uint32("program", program))

	info := &ProgramInfo{Program: program, dev: dev}
	attrib := func(name string) int32 {
		loc := dev.AttribLocation(program, name)
		if loc == -1 {
			logger.Log.Debug("Attribute not active", zap.String("name", name))
		}
		return loc
	}
	uniform := func(name string) int32 {
		loc := dev.UniformLocation(program, name)
		if loc == -1 {
			logger.Log.Debug("Uniform not active", zap.String("name", name))
		}
		return loc
	}

	info.Attribs = AttribLocations{
		Position: attrib(attribPosition),
		Normal:   attrib(attribNormal),
		TexCoord: attrib(attribTexCoord),
		Color:    attrib(attribColor),
	}
	info.Uniforms = UniformLocations{
		Projection:  uniform(uniformProjection),
		ModelView:   uniform(uniformModelView),
		Normal:      uniform(uniformNormal),
		Directional: uniform(uniformDirectional),
		UseTexture:  uniform(uniformUseTexture),
		Sampler:     uniform(uniformSampler),
	}

	dev.UseProgram(program)
	dev.Uniform1i(info.Uniforms.Sampler, 0)
	return info, nil
}

func compileStage(dev Device, stage ShaderStage, source string) (uint32, error) {
	shader, log, ok := dev.CompileShader(stage, source)
	if !ok {
		dev.DeleteShader(shader)
		logger.Log.Error("Failed to compile", zap.Stringer("stage", stage), zap.String("log", log))
		return 0, &ShaderError{Stage: stage.String(), Log: log}
	}
	logger.Log.Debug("Shader compiled", zap.Stringer("stage", stage))
	return shader, nil
}

func (p *ProgramInfo) Release() {
	if p == nil || p.Program == 0 {
		return
	}
	p.dev.DeleteProgram(p.Program)
	p.Program = 0
}
