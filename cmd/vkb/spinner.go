// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/vkb/core"
	"github.com/devblok/vkb/input"
	"github.com/devblok/vkb/scene"
)

const (
	defaultSpeed = float32(0.02)
	speedStep    = float32(0.01)
)

var triangle = scene.Mesh{Triangles: []scene.Triangle{{
	V1: scene.Vertex{Position: glm.Vec3{0, 0.6, 0}, Color: glm.Vec4{1, 0.2, 0.2, 1}},
	V2: scene.Vertex{Position: glm.Vec3{-0.6, -0.4, 0}, Color: glm.Vec4{0.2, 1, 0.2, 1}},
	V3: scene.Vertex{Position: glm.Vec3{0.6, -0.4, 0}, Color: glm.Vec4{0.2, 0.2, 1, 1}},
}}}

// spinner rotates a triangle around the y axis.
// W and S change the speed, F flips the direction and Q quits.
type spinner struct {
	angle  float32
	speed  float32
	paused bool
}

func newSpinner() *spinner {
	return &spinner{speed: defaultSpeed}
}

func (s *spinner) Update(state *core.State) {
	for _, ev := range state.DrainKeyboardEvents() {
		if ev.Action != input.Pressed {
			continue
		}
		switch ev.Key {
		case input.KeyQ:
			state.Quit()
		case input.KeyW:
			s.speed += speedStep
		case input.KeyS:
			s.speed -= speedStep
		case input.KeyF:
			s.speed = -s.speed
		}
	}
	for _, ev := range state.DrainMouseEvents() {
		if ev.IsPressed() {
			s.paused = !s.paused
		}
	}
	if !s.paused {
		s.angle += s.speed
	}
}

func (s *spinner) Render(state *core.State) {
	w, h := state.ScreenSize()
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}

	state.SetCamera(
		glm.LookAtV(glm.Vec3{0, 0, 3}, glm.Vec3{}, glm.Vec3{0, 1, 0}),
		scene.Camera{Projection: glm.Perspective(glm.DegToRad(45), aspect, 0.1, 100)},
	)
	state.SetLight(scene.Light{
		Point:    glm.Vec3{2, 2, 3},
		Color:    glm.Vec3{1, 1, 1},
		Strength: 0.6,
	})
	state.QueueRender(glm.HomogRotate3DY(s.angle), triangle)
}
