package shader

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pixil98/go-testutil"

	"scene-renderer/gfx/gfxtest"
	"scene-renderer/scene"
)

func litSource() Source {
	return Source{
		Name: "lit",
		Attribs: []Attrib{
			Float32Attrib("a_Position", 3),
			Float32Attrib("a_Normal", 3),
			Float32Attrib("a_TexCoord", 2),
		},
		Uniforms: []string{"u_Transform"},
		Vertex:   "void main() { init_light(vec4(0.0), vec3(0.0)); }\n",
		Fragment: "void main() { calc_light(vec4(1.0)); }\n",
		Lit:      true,
	}
}

func TestLoad_Memoized(t *testing.T) {
	rec := gfxtest.NewRecorder()
	p := New(rec, scene.NewParams(), litSource())

	first, err := p.Load(Normal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Load(Normal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("Load: expected the same build on second call")
	}
	testutil.AssertEqual(t, "CreateProgram calls", rec.Count("CreateProgram"), 1)
	testutil.AssertEqual(t, "UseProgram calls", rec.Count("UseProgram"), 2)
}

func TestLoad_VariantsDiffer(t *testing.T) {
	rec := gfxtest.NewRecorder()
	p := New(rec, scene.NewParams(), litSource())

	n := p.MustLoad(Normal)
	s := p.MustLoad(Shadow)
	if n.Handle == s.Handle {
		t.Fatal("expected distinct handles per variant")
	}

	shadowVS := rec.Sources[s.Handle][0]
	if !strings.Contains(shadowVS, "gl_Position = u_LightViewProj * worldPos") {
		t.Errorf("shadow vertex stage does not project into light space:\n%s", shadowVS)
	}
	normalFS := rec.Sources[n.Handle][1]
	if !strings.Contains(normalFS, "sampler2DShadow") {
		t.Errorf("normal fragment stage does not sample the shadow map:\n%s", normalFS)
	}
	if !strings.HasPrefix(normalFS, "#version 410 core") {
		t.Errorf("missing version header:\n%s", normalFS)
	}
}

func TestLoad_CompileError(t *testing.T) {
	rec := gfxtest.NewRecorder()
	rec.FailCompile = true
	p := New(rec, scene.NewParams(), litSource())

	_, err := p.Load(Shadow)
	testutil.AssertErrorContains(t, err, `build shadow program "lit"`)

	err = p.Prepare()
	testutil.AssertErrorContains(t, err, "compile failed")

	defer func() {
		if recover() == nil {
			t.Error("MustLoad: expected panic on build error")
		}
	}()
	p.MustLoad(Normal)
}

func TestPrepare(t *testing.T) {
	rec := gfxtest.NewRecorder()
	p := New(rec, scene.NewParams(), litSource())
	if err := p.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "lit builds", rec.Count("CreateProgram"), 2)

	unlit := litSource()
	unlit.Lit = false
	rec = gfxtest.NewRecorder()
	if err := New(rec, scene.NewParams(), unlit).Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "unlit builds", rec.Count("CreateProgram"), 1)
}

func TestLoadVaArgs(t *testing.T) {
	rec := gfxtest.NewRecorder()
	p := New(rec, scene.NewParams(), litSource())
	b := p.MustLoad(Normal)
	rec.Reset()

	b.LoadVaArgs()

	testutil.AssertEqual(t, "stride", b.Stride(), int32(32))
	if len(rec.Calls) != 3 {
		t.Fatalf("expected 3 attribute calls, got %v", rec.Calls)
	}
	offsets := []int{0, 12, 24}
	lengths := []int32{3, 3, 2}
	for i, c := range rec.Calls {
		testutil.AssertEqual(t, "name", c.Name, "VertexAttrib")
		testutil.AssertEqual(t, "components", c.Args[1].(int32), lengths[i])
		testutil.AssertEqual(t, "stride", c.Args[2].(int32), int32(32))
		testutil.AssertEqual(t, "offset", c.Args[3].(int), offsets[i])
	}
}

func TestLoadLightArgs_Normal(t *testing.T) {
	rec := gfxtest.NewRecorder()
	params := scene.NewParams()
	params.FlashLight.Enable = true
	params.Camera.Eye = mgl32.Vec3{1, 2, 3}
	p := New(rec, params, litSource())
	b := p.MustLoad(Normal)

	p.LoadLightArgs(Normal)

	testutil.AssertEqual(t, "shadow unit", rec.Uniforms[b.Args[uShadowMap]], any(int32(DefaultShadowUnit)))
	testutil.AssertEqual(t, "flash enable", rec.Uniforms[b.Args[uFlashEnable]], any(int32(1)))
	testutil.AssertEqual(t, "eye", rec.Uniforms[b.Args[uEye]], any(mgl32.Vec3{1, 2, 3}))
	testutil.AssertEqual(t, "light matrix", rec.Uniforms[b.Args[uLightViewProj]], any(params.LightViewProj()))
}

func TestLoadLightArgs_Shadow(t *testing.T) {
	rec := gfxtest.NewRecorder()
	p := New(rec, scene.NewParams(), litSource())
	p.MustLoad(Shadow)
	rec.Reset()

	p.LoadLightArgs(Shadow)

	testutil.AssertEqual(t, "calls", len(rec.Calls), 1)
	testutil.AssertEqual(t, "call", rec.Calls[0].Name, "UniformMatrix4")
}

func TestLoadLightArgs_Unlit(t *testing.T) {
	rec := gfxtest.NewRecorder()
	src := litSource()
	src.Lit = false
	p := New(rec, scene.NewParams(), src)
	p.MustLoad(Normal)
	rec.Reset()

	p.LoadLightArgs(Normal)

	testutil.AssertEqual(t, "calls", len(rec.Calls), 0)
}

func TestVariantFor(t *testing.T) {
	testutil.AssertEqual(t, "shadow", VariantFor(true), Shadow)
	testutil.AssertEqual(t, "normal", VariantFor(false), Normal)
}
