// Package shader wraps a vertex/fragment pair into a program with two lazily
// built variants: one for the shadow pass and one for the visible pass.
package shader

import (
	"fmt"

	"go.uber.org/zap"

	"scene-renderer/gfx"
	"scene-renderer/internal/logger"
	"scene-renderer/scene"
)

// DefaultShadowUnit is the texture unit the shadow map is sampled from.
const DefaultShadowUnit = 7

// Variant selects which build of a program to use.
type Variant int

const (
	Normal Variant = iota
	Shadow
)

// VariantFor maps the render pass flag to a variant.
func VariantFor(shadowPass bool) Variant {
	if shadowPass {
		return Shadow
	}
	return Normal
}

func (v Variant) String() string {
	if v == Shadow {
		return "shadow"
	}
	return "normal"
}

// Attrib describes one interleaved vertex attribute. Size is in bytes.
type Attrib struct {
	Name   string
	Length int32
	Size   int32
}

// Float32Attrib describes an attribute of n float32 components.
func Float32Attrib(name string, n int32) Attrib {
	return Attrib{Name: name, Length: n, Size: n * 4}
}

// Source is the GLSL of a program without version header or lighting
// prelude. Lit programs may call init_light in the vertex stage and
// calc_light in the fragment stage. Unlit fragment stages write fragColor.
type Source struct {
	Name     string
	Attribs  []Attrib
	Uniforms []string
	Vertex   string
	Fragment string
	Lit      bool
}

// Program holds the source and the memoized builds of both variants.
type Program struct {
	dev        gfx.Device
	params     *scene.Params
	src        Source
	shadowUnit int
	builds     [2]*Build
}

func New(dev gfx.Device, params *scene.Params, src Source) *Program {
	return &Program{
		dev:        dev,
		params:     params,
		src:        src,
		shadowUnit: DefaultShadowUnit,
	}
}

// SetShadowUnit changes the texture unit the shadow map is read from.
func (p *Program) SetShadowUnit(unit int) {
	p.shadowUnit = unit
}

func (p *Program) Name() string { return p.src.Name }

// Lit reports whether the program takes part in lighting.
func (p *Program) Lit() bool { return p.src.Lit }

// Sources returns the full vertex and fragment GLSL of variant v.
func (p *Program) Sources(v Variant) (string, string) {
	vs := versionHeader
	fs := versionHeader + fragmentOut
	if p.src.Lit {
		if v == Shadow {
			vs += shadowVertexPrelude
			fs += shadowFragmentPrelude
		} else {
			vs += normalVertexPrelude
			fs += normalFragmentPrelude
		}
	}
	return vs + p.src.Vertex, fs + p.src.Fragment
}

// Load builds variant v on first use and makes it current.
func (p *Program) Load(v Variant) (*Build, error) {
	b := p.builds[v]
	if b == nil {
		var err error
		b, err = p.build(v)
		if err != nil {
			return nil, err
		}
		p.builds[v] = b
	}
	p.dev.UseProgram(b.Handle)
	return b, nil
}

// MustLoad is Load for the render path, where every variant has already
// been built by Prepare.
func (p *Program) MustLoad(v Variant) *Build {
	b, err := p.Load(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Prepare builds every variant the program can be drawn with.
func (p *Program) Prepare() error {
	variants := []Variant{Normal}
	if p.src.Lit {
		variants = append(variants, Shadow)
	}
	for _, v := range variants {
		if _, err := p.Load(v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) build(v Variant) (*Build, error) {
	vs, fs := p.Sources(v)
	handle, err := p.dev.CreateProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("build %s program %q: %w", v, p.src.Name, err)
	}

	b := &Build{
		Handle:  handle,
		Args:    make(map[string]int32),
		dev:     p.dev,
		attribs: p.src.Attribs,
	}
	for _, a := range p.src.Attribs {
		b.Args[a.Name] = p.dev.AttribLocation(handle, a.Name)
	}
	for _, u := range p.src.Uniforms {
		b.Args[u] = p.dev.UniformLocation(handle, u)
	}
	if p.src.Lit {
		names := normalLightUniforms
		if v == Shadow {
			names = shadowLightUniforms
		}
		for _, u := range names {
			b.Args[u] = p.dev.UniformLocation(handle, u)
		}
	}

	logger.Log.Debug("program built",
		zap.String("program", p.src.Name),
		zap.Stringer("variant", v),
		zap.Uint32("handle", uint32(handle)))
	return b, nil
}

// LoadLightArgs pushes the shared lighting state into the current build of
// variant v. Unlit programs and unbuilt variants are left untouched.
func (p *Program) LoadLightArgs(v Variant) {
	b := p.builds[v]
	if !p.src.Lit || b == nil {
		return
	}
	d := p.dev
	d.UniformMatrix4(b.Args[uLightViewProj], p.params.LightViewProj())
	if v == Shadow {
		return
	}

	cam := p.params.Camera
	sun := p.params.Sun
	flash := p.params.FlashLight

	d.Uniform3f(b.Args[uSunDirection], sun.Direction)
	d.Uniform3f(b.Args[uSunColor], sun.Color)
	d.Uniform3f(b.Args[uAmbient], sun.Ambient)
	d.Uniform3f(b.Args[uEye], cam.Eye)

	enable := int32(0)
	if flash.Enable {
		enable = 1
	}
	d.Uniform1i(b.Args[uFlashEnable], enable)
	d.Uniform3f(b.Args[uFlashPosition], cam.Eye)
	d.Uniform3f(b.Args[uFlashDirection], cam.Direction())
	d.Uniform1f(b.Args[uFlashCutoff], flash.Cutoff)
	d.Uniform3f(b.Args[uFlashColor], flash.Color)
	d.Uniform1i(b.Args[uShadowMap], int32(p.shadowUnit))
}

// Build is one compiled variant with its resolved locations.
type Build struct {
	Handle gfx.Program
	Args   map[string]int32

	dev     gfx.Device
	attribs []Attrib
}

// Stride is the byte size of one interleaved vertex.
func (b *Build) Stride() int32 {
	var stride int32
	for _, a := range b.attribs {
		stride += a.Size
	}
	return stride
}

// LoadVaArgs points every attribute at the bound array buffer.
func (b *Build) LoadVaArgs() {
	stride := b.Stride()
	offset := 0
	for _, a := range b.attribs {
		b.dev.VertexAttrib(b.Args[a.Name], a.Length, stride, offset)
		offset += int(a.Size)
	}
}
