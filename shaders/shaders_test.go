// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package shaders_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkb/shaders"
	"github.com/devblok/vkb/utility/spvpack"
)

type mapSource map[string][]byte

func (m mapSource) Find(name string) ([]byte, error) {
	if data, ok := m[name]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

var (
	vertexCode   = []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	fragmentCode = []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00, 0x0b, 0x00, 0x08, 0x00}
)

func TestFromSource(t *testing.T) {
	c := qt.New(t)
	code, err := shaders.FromSource(mapSource{
		shaders.VertexStage:   vertexCode,
		shaders.FragmentStage: fragmentCode,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(code.Vertex, qt.DeepEquals, vertexCode)
	c.Assert(code.Fragment, qt.DeepEquals, fragmentCode)
}

func TestFromSourceMissingStage(t *testing.T) {
	c := qt.New(t)
	_, err := shaders.FromSource(mapSource{shaders.VertexStage: vertexCode})
	c.Assert(err, qt.ErrorMatches, "triangle.frag.spv: .*")
	c.Assert(errors.Cause(err), qt.Equals, os.ErrNotExist)
}

func TestFromSourceInvalidStage(t *testing.T) {
	c := qt.New(t)
	_, err := shaders.FromSource(mapSource{
		shaders.VertexStage:   vertexCode,
		shaders.FragmentStage: fragmentCode[:5],
	})
	c.Assert(err, qt.ErrorMatches, "fragment shader size 5 is not a multiple of 4")
}

func TestLoadBundle(t *testing.T) {
	c := qt.New(t)
	b := spvpack.NewBuilder(spvpack.Header{Author: "test", Version: 1})
	c.Assert(b.Add(shaders.VertexStage, bytes.NewReader(vertexCode)), qt.IsNil)
	c.Assert(b.Add(shaders.FragmentStage, bytes.NewReader(fragmentCode)), qt.IsNil)

	path := filepath.Join(c.TempDir(), "shaders.spk")
	f, err := os.Create(path)
	c.Assert(err, qt.IsNil)
	_, err = b.WriteTo(f)
	c.Assert(err, qt.IsNil)
	c.Assert(f.Close(), qt.IsNil)

	code, err := shaders.LoadBundle(path)
	c.Assert(err, qt.IsNil)
	c.Assert(code.Vertex, qt.DeepEquals, vertexCode)
	c.Assert(code.Fragment, qt.DeepEquals, fragmentCode)
}

func TestLoadBundleMissingStage(t *testing.T) {
	c := qt.New(t)
	b := spvpack.NewBuilder(spvpack.Header{})
	c.Assert(b.Add(shaders.VertexStage, bytes.NewReader(vertexCode)), qt.IsNil)

	path := filepath.Join(c.TempDir(), "half.spk")
	f, err := os.Create(path)
	c.Assert(err, qt.IsNil)
	_, err = b.WriteTo(f)
	c.Assert(err, qt.IsNil)
	c.Assert(f.Close(), qt.IsNil)

	_, err = shaders.LoadBundle(path)
	c.Assert(errors.Is(err, spvpack.ErrNotFound), qt.IsTrue)
}

func TestLoadBox(t *testing.T) {
	c := qt.New(t)
	code, err := shaders.Load()
	c.Assert(err, qt.IsNil)

	for stage, spv := range map[string][]byte{
		shaders.VertexStage:   code.Vertex,
		shaders.FragmentStage: code.Fragment,
	} {
		c.Assert(binary.LittleEndian.Uint32(spv), qt.Equals, uint32(0x07230203), qt.Commentf("stage %s", stage))
		c.Assert(bytes.Contains(spv, []byte("main\x00")), qt.IsTrue, qt.Commentf("stage %s", stage))
	}
	c.Assert(bytes.Contains(code.Fragment, []byte("GLSL.std.450")), qt.IsTrue)
}
