// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/devblok/vkb/event"
)

const fpsReportInterval = 5 * time.Second

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger the engine reports to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithTime caps the frame rate with the given time service.
func WithTime(t *Time) Option {
	return func(e *Engine) {
		e.time = t
	}
}

// NewEngine creates the frame loop over an initialised renderer and the
// window it presents to. Both stay owned by the caller.
func NewEngine(w Window, r Renderer, opts ...Option) *Engine {
	e := &Engine{
		window:   w,
		renderer: r,
		state:    NewState(),
		log:      logrus.StandardLogger(),
		status:   Initializing,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.dimensions = r.Extent()
	return e
}

// Engine runs the per-frame loop: host callbacks, vertex upload,
// swapchain maintenance, recording, submission and event polling.
type Engine struct {
	window   Window
	renderer Renderer
	state    *State
	log      logrus.FieldLogger
	time     *Time

	status EngineState
	frames uint64

	recreateSwapchain bool
	framebuffersValid bool
	closeRequested    bool
	polled            []event.Event

	reportStart  time.Time
	reportFrames uint64
}

// State returns the render state handed to the application.
func (e *Engine) State() *State {
	return e.state
}

// Status returns the lifecycle stage.
func (e *Engine) Status() EngineState {
	return e.status
}

// Frames returns the number of frames submitted so far.
func (e *Engine) Frames() uint64 {
	return e.frames
}

// Run loops until the window is closed, in which case it returns nil, or
// until a fatal error occurs. Returned errors are always *FatalError.
func (e *Engine) Run(app Application) error {
	e.status = Running
	e.reportStart = time.Now()
	defer func() {
		e.status = Terminated
	}()

	for !e.closeRequested {
		if err := e.frame(app); err != nil {
			e.log.WithError(err).Error("frame loop terminated")
			return err
		}
		e.report()
		e.time.Wait()
	}

	e.log.WithField("frames", e.frames).Info("window closed")
	return nil
}

func (e *Engine) frame(app Application) error {
	app.Update(e.state)
	app.Render(e.state)
	if e.state.quit {
		return fatal("application", ErrQuitRequested)
	}

	e.renderer.CleanupFinished()

	buffer, err := e.renderer.Upload(e.state.drainVertexes())
	if err != nil {
		return fatal("vertex upload", err)
	}

	if e.recreateSwapchain {
		dimensions := e.window.DrawableSize()
		err := e.renderer.RecreateSwapchain(dimensions)
		switch {
		case errors.Is(err, ErrUnsupportedDimensions):
			e.log.WithFields(logrus.Fields{
				"width":  dimensions.Width,
				"height": dimensions.Height,
			}).Debug("surface does not support dimensions, retrying")
			buffer.Release()
			e.pollEvents()
			return nil
		case err != nil:
			buffer.Release()
			return fatal("swapchain recreation", err)
		}
		e.state.dimensions = dimensions
		e.framebuffersValid = false
		e.recreateSwapchain = false
	}

	if !e.framebuffersValid {
		if err := e.renderer.BuildFramebuffers(); err != nil {
			buffer.Release()
			return fatal("framebuffer creation", err)
		}
		e.framebuffersValid = true
	}

	image, err := e.renderer.Acquire()
	switch {
	case errors.Is(err, ErrOutOfDate):
		e.log.Debug("swapchain out of date on acquire")
		e.recreateSwapchain = true
		buffer.Release()
		e.pollEvents()
		return nil
	case err != nil:
		buffer.Release()
		return fatal("image acquisition", err)
	}

	if err := e.renderer.Record(Frame{
		Image:    image,
		Vertices: buffer,
		Viewport: e.state.dimensions,
		Uniforms: e.state.Uniforms(),
	}); err != nil {
		return fatal("command recording", err)
	}

	err = e.renderer.Submit(image)
	switch {
	case errors.Is(err, ErrOutOfDate):
		e.log.Debug("swapchain out of date on present")
		e.recreateSwapchain = true
	case err != nil:
		return fatal("submission", err)
	}
	e.frames++

	e.pollEvents()
	return nil
}

func (e *Engine) pollEvents() {
	e.state.resetEvents()
	e.polled = e.window.Poll(e.polled[:0])
	for _, ev := range e.polled {
		e.state.pushEvent(ev)
		switch ev := ev.(type) {
		case event.CloseRequested:
			e.closeRequested = true
		case event.Resized:
			e.recreateSwapchain = true
		case event.CursorMoved:
			e.state.mouseX, e.state.mouseY = ev.X, ev.Y
		}
	}
}

func (e *Engine) report() {
	elapsed := time.Since(e.reportStart)
	if elapsed < fpsReportInterval {
		return
	}
	rendered := e.frames - e.reportFrames
	e.log.WithFields(logrus.Fields{
		"frames": e.frames,
		"fps":    float64(rendered) / elapsed.Seconds(),
	}).Debug("frame rate")
	e.reportStart = time.Now()
	e.reportFrames = e.frames
}
