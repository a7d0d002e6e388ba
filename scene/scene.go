// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package scene contains the host-side geometry, camera and light values
// the backend receives through its capability interfaces. The backend
// never builds or owns these, it only converts them.
package scene

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Vertex is a host mesh vertex.
type Vertex struct {
	Position glm.Vec3
	Color    glm.Vec4
	Texture  glm.Vec2
}

// Triangle is three vertexes in winding order.
type Triangle struct {
	V1, V2, V3 Vertex
}

// Mesh is a flat list of triangles.
type Mesh struct {
	Triangles []Triangle
}

// Transform returns a copy of the mesh with every position
// multiplied by m, perspective divide included.
func (m Mesh) Transform(t glm.Mat4) Mesh {
	out := Mesh{Triangles: make([]Triangle, len(m.Triangles))}
	for idx, tri := range m.Triangles {
		out.Triangles[idx] = Triangle{
			V1: tri.V1.transform(t),
			V2: tri.V2.transform(t),
			V3: tri.V3.transform(t),
		}
	}
	return out
}

func (v Vertex) transform(t glm.Mat4) Vertex {
	v.Position = glm.TransformCoordinate(v.Position, t)
	return v
}

// Camera carries the projection matrix, the view comes
// with the transform passed next to it.
type Camera struct {
	Projection glm.Mat4
}

// Light is a single point light.
type Light struct {
	Point    glm.Vec3
	Color    glm.Vec3
	Strength float32
}
