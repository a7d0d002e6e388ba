// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/vkb/core"
	"github.com/devblok/vkb/model"
	"github.com/devblok/vkb/scene"
)

func TestNewStateDefaults(t *testing.T) {
	c := qt.New(t)
	s := core.NewState()
	c.Assert(s.Uniforms(), qt.Equals, model.DefaultUniforms())
	c.Assert(s.Events(), qt.HasLen, 0)
	x, y := s.MousePosition()
	c.Assert(x, qt.Equals, 0.0)
	c.Assert(y, qt.Equals, 0.0)
}

func TestSetCameraResetsLight(t *testing.T) {
	c := qt.New(t)
	s := core.NewState()
	s.SetLight(scene.Light{Point: glm.Vec3{9, 9, 9}, Color: glm.Vec3{0, 1, 0}, Strength: 1})

	view := glm.Translate3D(1, 2, 3)
	camera := scene.Camera{Projection: glm.Perspective(1, 1, 0.1, 100)}
	s.SetCamera(view, camera)

	want := model.DefaultUniforms()
	want.ProjectionView = camera.Projection.Mul4(view)
	c.Assert(s.Uniforms(), qt.Equals, want)
}

func TestSetLightKeepsProjection(t *testing.T) {
	c := qt.New(t)
	s := core.NewState()
	camera := scene.Camera{Projection: glm.Ortho(0, 10, 0, 10, -1, 1)}
	s.SetCamera(glm.Ident4(), camera)
	s.SetLight(scene.Light{Point: glm.Vec3{-1, 0, 1}, Color: glm.Vec3{0.5, 0.5, 0.5}, Strength: 0.9})

	u := s.Uniforms()
	c.Assert(u.ProjectionView, qt.Equals, camera.Projection)
	c.Assert(u.LightOrigin, qt.Equals, glm.Vec4{-1, 0, 1, 1})
	c.Assert(u.LightColor, qt.Equals, glm.Vec4{0.5, 0.5, 0.5, 1})
	c.Assert(u.AmbientLightStrength, qt.Equals, float32(0.9))
	c.Assert(u.DiffuseLightStrength, qt.Equals, float32(0.9))
	c.Assert(u.SpecularLightStrength, qt.Equals, float32(0.9))
}

func TestQueueRenderFlatNormals(t *testing.T) {
	c := qt.New(t)
	r := newFakeRenderer()
	e := core.NewEngine(&fakeWindow{size: r.extent}, r)

	a, b, cc := glm.Vec3{0, 0, 1}, glm.Vec3{2, 0, 1}, glm.Vec3{0, 0, 3}
	mesh := scene.Mesh{Triangles: []scene.Triangle{{
		V1: scene.Vertex{Position: a, Texture: glm.Vec2{0, 0}},
		V2: scene.Vertex{Position: b, Texture: glm.Vec2{1, 0}},
		V3: scene.Vertex{Position: cc, Texture: glm.Vec2{0, 1}},
	}}}
	err := e.Run(core.ApplicationFuncs{RenderFunc: func(st *core.State) {
		st.QueueRender(glm.Translate3D(0, 1, 0), mesh)
	}})
	c.Assert(err, qt.IsNil)

	got := r.recorded[0].Vertices.(*fakeBuffer).vertices
	want := b.Sub(a).Cross(cc.Sub(a)).Mul(-1).Vec4(0)
	for idx, v := range got {
		c.Assert(v.Normal.ApproxEqual(want), qt.IsTrue, qt.Commentf("vertex %d: %v", idx, v.Normal))
	}
	c.Assert(got[0].Position, qt.Equals, glm.Vec4{0, 1, 1, 1})
	c.Assert(got[2].Texture, qt.Equals, glm.Vec2{0, 1})
}

func TestEventsOnFreshState(t *testing.T) {
	c := qt.New(t)
	s := core.NewState()
	c.Assert(s.DrainKeyboardEvents(), qt.HasLen, 0)
	c.Assert(s.DrainMouseEvents(), qt.HasLen, 0)
	w, h := s.ScreenSize()
	c.Assert(w, qt.Equals, uint32(0))
	c.Assert(h, qt.Equals, uint32(0))
}

func BenchmarkQueueRender(b *testing.B) {
	s := core.NewState()
	mesh := scene.Mesh{Triangles: make([]scene.Triangle, 64)}
	m := glm.HomogRotate3DY(0.5)
	for idx := 0; idx < b.N; idx++ {
		s.QueueRender(m, mesh)
	}
}
