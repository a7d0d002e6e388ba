// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"github.com/devblok/vkb/core"
	"github.com/devblok/vkb/event"
	"github.com/devblok/vkb/model"
)

type fakeBuffer struct {
	vertices []model.Vertex
	released *int
}

func (b *fakeBuffer) Len() int { return len(b.vertices) }

func (b *fakeBuffer) Release() { *b.released++ }

// fakeRenderer records the calls the engine makes. Errors are popped
// from the queues in call order, an empty queue means success.
type fakeRenderer struct {
	extent core.Extent

	calls    []string
	recorded []core.Frame
	released int
	inFlight []core.VertexBuffer

	recreateErrs []error
	buildErrs    []error
	acquireErrs  []error
	submitErrs   []error
	recreated    []core.Extent
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{extent: core.Extent{Width: 800, Height: 600}}
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (r *fakeRenderer) Extent() core.Extent { return r.extent }

func (r *fakeRenderer) CleanupFinished() {
	r.calls = append(r.calls, "cleanup")
	for _, b := range r.inFlight {
		b.Release()
	}
	r.inFlight = nil
}

func (r *fakeRenderer) Upload(vertices []model.Vertex) (core.VertexBuffer, error) {
	r.calls = append(r.calls, "upload")
	return &fakeBuffer{vertices: vertices, released: &r.released}, nil
}

func (r *fakeRenderer) RecreateSwapchain(e core.Extent) error {
	r.calls = append(r.calls, "recreate")
	err := pop(&r.recreateErrs)
	if err == nil {
		r.recreated = append(r.recreated, e)
		r.extent = e
	}
	return err
}

func (r *fakeRenderer) BuildFramebuffers() error {
	r.calls = append(r.calls, "framebuffers")
	return pop(&r.buildErrs)
}

func (r *fakeRenderer) Acquire() (uint32, error) {
	r.calls = append(r.calls, "acquire")
	return uint32(len(r.recorded) % 2), pop(&r.acquireErrs)
}

func (r *fakeRenderer) Record(f core.Frame) error {
	r.calls = append(r.calls, "record")
	r.recorded = append(r.recorded, f)
	r.inFlight = append(r.inFlight, f.Vertices)
	return nil
}

func (r *fakeRenderer) Submit(image uint32) error {
	r.calls = append(r.calls, "submit")
	return pop(&r.submitErrs)
}

func (r *fakeRenderer) Destroy() {}

func (r *fakeRenderer) count(call string) int {
	var n int
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// fakeWindow hands out one scripted batch per poll and requests a close
// once the script runs out.
type fakeWindow struct {
	size   core.Extent
	script [][]event.Event
	polls  int
}

func (w *fakeWindow) DrawableSize() core.Extent { return w.size }

func (w *fakeWindow) Poll(dst []event.Event) []event.Event {
	w.polls++
	if len(w.script) == 0 {
		return append(dst, event.CloseRequested{})
	}
	batch := w.script[0]
	w.script = w.script[1:]
	return append(dst, batch...)
}
