package cmdbuf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/webgame/internal/engine/gpu"
)

// Parameter names a frame-global value resolved when the buffer executes.
type Parameter uint8

const (
	ProjectionMatrix Parameter = iota
	InverseProjectionMatrix
	ViewMatrix
	InverseViewMatrix
	CameraPos
	ScreenParams
	ClipParams
	TimeParams
	FogParams
	FogColor
	RefractColorMap
	RefractDepthMap
)

var parameterNames = [...]string{
	ProjectionMatrix:        "projectionMatrix",
	InverseProjectionMatrix: "inverseProjectionMatrix",
	ViewMatrix:              "viewMatrix",
	InverseViewMatrix:       "inverseViewMatrix",
	CameraPos:               "cameraPos",
	ScreenParams:            "screenParams",
	ClipParams:              "clipParams",
	TimeParams:              "timeParams",
	FogParams:               "fogParams",
	FogColor:                "fogColor",
	RefractColorMap:         "refractColorMap",
	RefractDepthMap:         "refractDepthMap",
}

func (p Parameter) String() string {
	if int(p) < len(parameterNames) {
		return parameterNames[p]
	}
	return fmt.Sprintf("Parameter(%d)", p)
}

// ParameterValue holds one table entry. Which field is read depends on the
// parameter: matrices use Matrix, vectors use Vector (CameraPos and FogColor
// only XYZ), maps use Texture.
type ParameterValue struct {
	Matrix  mgl32.Mat4
	Vector  mgl32.Vec4
	Texture Texture
}

func (p Parameter) upload(gl gpu.Context, loc gpu.UniformLocation, unit int32, v ParameterValue) {
	switch p {
	case ProjectionMatrix, InverseProjectionMatrix, ViewMatrix, InverseViewMatrix:
		gl.UniformMatrix4fv(loc, false, v.Matrix[:])
	case CameraPos, FogColor:
		gl.Uniform3f(loc, v.Vector[0], v.Vector[1], v.Vector[2])
	case ScreenParams, ClipParams, TimeParams, FogParams:
		gl.Uniform4f(loc, v.Vector[0], v.Vector[1], v.Vector[2], v.Vector[3])
	case RefractColorMap, RefractDepthMap:
		if !hasHandle(v.Texture) {
			return
		}
		gl.ActiveTexture(gpu.TextureUnit(unit))
		gl.BindTexture(v.Texture.Target(), v.Texture.Handle())
	}
}

// SetMatrixParameter stores a matrix parameter for the next Execute.
func (cb *CommandBuffer) SetMatrixParameter(p Parameter, m mgl32.Mat4) {
	cb.params[p] = ParameterValue{Matrix: m}
}

// SetVectorParameter stores a four component parameter.
func (cb *CommandBuffer) SetVectorParameter(p Parameter, v mgl32.Vec4) {
	cb.params[p] = ParameterValue{Vector: v}
}

// SetVector3Parameter stores a three component parameter.
func (cb *CommandBuffer) SetVector3Parameter(p Parameter, v mgl32.Vec3) {
	cb.params[p] = ParameterValue{Vector: v.Vec4(0)}
}

// SetTextureParameter stores a texture parameter. A nil texture, or one
// without a GPU handle, removes it.
func (cb *CommandBuffer) SetTextureParameter(p Parameter, tex Texture) {
	if !hasHandle(tex) {
		delete(cb.params, p)
		return
	}
	cb.params[p] = ParameterValue{Texture: tex}
}

// UnsetParameter removes p; commands reading it are skipped.
func (cb *CommandBuffer) UnsetParameter(p Parameter) {
	delete(cb.params, p)
}

// ParameterValue returns the current entry for p.
func (cb *CommandBuffer) ParameterValue(p Parameter) (ParameterValue, bool) {
	v, ok := cb.params[p]
	return v, ok
}
