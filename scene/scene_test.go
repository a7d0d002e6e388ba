// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/vkb/scene"
)

func TestMeshTransform(t *testing.T) {
	c := qt.New(t)
	mesh := scene.Mesh{Triangles: []scene.Triangle{{
		V1: scene.Vertex{Position: glm.Vec3{0, 0, 0}, Color: glm.Vec4{1, 0, 0, 1}},
		V2: scene.Vertex{Position: glm.Vec3{1, 0, 0}},
		V3: scene.Vertex{Position: glm.Vec3{0, 1, 0}},
	}}}

	moved := mesh.Transform(glm.Translate3D(1, 2, 3))
	c.Assert(moved.Triangles, qt.HasLen, 1)
	c.Assert(moved.Triangles[0].V1.Position.ApproxEqual(glm.Vec3{1, 2, 3}), qt.IsTrue)
	c.Assert(moved.Triangles[0].V2.Position.ApproxEqual(glm.Vec3{2, 2, 3}), qt.IsTrue)
	c.Assert(moved.Triangles[0].V3.Position.ApproxEqual(glm.Vec3{1, 3, 3}), qt.IsTrue)
	c.Assert(moved.Triangles[0].V1.Color, qt.Equals, glm.Vec4{1, 0, 0, 1})

	// the source mesh is left alone
	c.Assert(mesh.Triangles[0].V1.Position, qt.Equals, glm.Vec3{0, 0, 0})
}
