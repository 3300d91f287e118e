// Package shader wraps linked GPU programs and their uniforms.
package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/logger"
)

// Compiler builds programs from source. Both GL backends implement it.
type Compiler interface {
	CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error)
	DeleteProgram(p gpu.Program)
}

// Program is a linked program with cached uniform lookups.
type Program struct {
	name     string
	gl       gpu.Context
	compiler Compiler
	handle   gpu.Program
	uniforms map[string]*Uniform
}

// Compile compiles and links a program. name is only used in errors and logs.
func Compile(gl gpu.Context, compiler Compiler, name, vertexSrc, fragmentSrc string) (*Program, error) {
	handle, err := compiler.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("compiling %s program: %w", name, err)
	}
	p := Wrap(gl, name, handle)
	p.compiler = compiler
	return p, nil
}

// Wrap adopts an already linked program. Dispose on a wrapped program does
// not delete it.
func Wrap(gl gpu.Context, name string, handle gpu.Program) *Program {
	return &Program{
		name:     name,
		gl:       gl,
		handle:   handle,
		uniforms: make(map[string]*Uniform),
	}
}

// Handle returns the GPU program.
func (p *Program) Handle() gpu.Program {
	return p.handle
}

// Name returns the program name given at creation.
func (p *Program) Name() string {
	return p.name
}

// Uniform returns the uniform called name. Inactive uniforms are returned
// too; command buffers skip them.
func (p *Program) Uniform(name string) *Uniform {
	if u, ok := p.uniforms[name]; ok {
		return u
	}
	u := &Uniform{name: name, loc: p.gl.GetUniformLocation(p.handle, name)}
	if u.loc == gpu.NoUniform {
		logger.Debug("inactive uniform", zap.String("program", p.name), zap.String("uniform", name))
	}
	p.uniforms[name] = u
	return u
}

// Sampler returns the sampler uniform called name, assigned to unit.
func (p *Program) Sampler(name string, unit int32) *Sampler {
	return &Sampler{Uniform: p.Uniform(name), unit: unit}
}

// Dispose deletes a compiled program. Safe to call more than once.
func (p *Program) Dispose() {
	if p.compiler != nil && p.handle != 0 {
		p.compiler.DeleteProgram(p.handle)
	}
	p.handle = 0
	clear(p.uniforms)
}

// Uniform is a named uniform location. A nil *Uniform has no location.
type Uniform struct {
	name string
	loc  gpu.UniformLocation
}

// Name returns the uniform name.
func (u *Uniform) Name() string {
	if u == nil {
		return ""
	}
	return u.name
}

// Location returns the uniform location, or gpu.NoUniform.
func (u *Uniform) Location() gpu.UniformLocation {
	if u == nil {
		return gpu.NoUniform
	}
	return u.loc
}

// Active reports whether the uniform exists in its program.
func (u *Uniform) Active() bool {
	return u.Location() != gpu.NoUniform
}

// Sampler is a sampler uniform with a fixed texture unit.
type Sampler struct {
	*Uniform
	unit int32
}

// TexUnit returns the texture unit the sampler reads from.
func (s *Sampler) TexUnit() int32 {
	return s.unit
}
