// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/vkb/event"
	"github.com/devblok/vkb/input"
	"github.com/devblok/vkb/model"
	"github.com/devblok/vkb/scene"
)

// SetCamera is implemented by backends that accept a camera.
type SetCamera interface {
	// SetCamera resets the uniforms to their defaults with
	// projection * transform as the projection-view matrix.
	SetCamera(transform glm.Mat4, camera scene.Camera)
}

// SetLights is implemented by backends that accept a light.
type SetLights interface {
	SetLight(light scene.Light)
}

// RenderMesh is implemented by backends that can draw meshes.
type RenderMesh interface {
	// QueueRender transforms the mesh by m and queues it for this frame.
	QueueRender(m glm.Mat4, mesh scene.Mesh)
}

// KeyboardEventSource gives the host this frame's keyboard events.
type KeyboardEventSource interface {
	DrainKeyboardEvents() []input.KeyboardEvent
}

// MouseEventSource gives the host this frame's mouse events.
type MouseEventSource interface {
	DrainMouseEvents() []input.MouseEvent
}

// Capabilities is the full set of host facing capabilities.
type Capabilities interface {
	SetCamera
	SetLights
	RenderMesh
	KeyboardEventSource
	MouseEventSource
}

var _ Capabilities = (*State)(nil)

// SetCamera implements interface
func (s *State) SetCamera(transform glm.Mat4, camera scene.Camera) {
	u := model.DefaultUniforms()
	u.ProjectionView = camera.Projection.Mul4(transform)
	s.SetUniforms(u)
}

// SetLight implements interface
func (s *State) SetLight(light scene.Light) {
	u := s.Uniforms()
	u.LightOrigin = light.Point.Vec4(1)
	u.LightColor = light.Color.Vec4(1)
	u.AmbientLightStrength = light.Strength
	u.DiffuseLightStrength = light.Strength
	u.SpecularLightStrength = light.Strength
	s.SetUniforms(u)
}

// QueueRender implements interface. Every vertex gets the normal of its
// triangle, computed from the two edges leaving it, so triangles come out
// flat shaded.
func (s *State) QueueRender(m glm.Mat4, mesh scene.Mesh) {
	transformed := mesh.Transform(m)
	vertexes := make([]model.Vertex, 0, len(transformed.Triangles)*3)
	for _, t := range transformed.Triangles {
		p1, p2, p3 := t.V1.Position, t.V2.Position, t.V3.Position

		n1 := p1.Sub(p3).Cross(p1.Sub(p2))
		n2 := p2.Sub(p1).Cross(p2.Sub(p3))
		n3 := p3.Sub(p2).Cross(p3.Sub(p1))

		vertexes = append(vertexes,
			toModelVertex(t.V1, n1),
			toModelVertex(t.V2, n2),
			toModelVertex(t.V3, n3),
		)
	}
	s.EnqueueVertexes(vertexes)
}

// DrainKeyboardEvents implements interface
func (s *State) DrainKeyboardEvents() []input.KeyboardEvent {
	return event.Keyboard(s.Events())
}

// DrainMouseEvents implements interface
func (s *State) DrainMouseEvents() []input.MouseEvent {
	x, y := s.MousePosition()
	return event.Mouse(s.Events(), glm.Vec2{float32(x), float32(y)})
}

func toModelVertex(v scene.Vertex, normal glm.Vec3) model.Vertex {
	return model.Vertex{
		Position: v.Position.Vec4(1),
		Normal:   normal.Vec4(0),
		Color:    v.Color,
		Texture:  v.Texture,
	}
}
