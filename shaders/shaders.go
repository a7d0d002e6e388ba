// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package shaders serves the SPIR-V of the fixed triangle pipeline,
// either from the packr box built into the binary or from an spvpack bundle.
package shaders

//go:generate glslangValidator -V triangle.vert -o spv/triangle.vert.spv
//go:generate glslangValidator -V triangle.frag -o spv/triangle.frag.spv

import (
	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"

	"github.com/devblok/vkb/utility/spvpack"
	"github.com/devblok/vkb/vkr"
)

// Entry names of the two stages, in the box and in bundles alike.
const (
	VertexStage   = "triangle.vert.spv"
	FragmentStage = "triangle.frag.spv"
)

// Box holds the compiled stages.
var Box = packr.NewBox("./spv")

// Source is anything stages can be read from by name.
type Source interface {
	Find(name string) ([]byte, error)
}

// Load returns the stages built into the binary.
func Load() (vkr.ShaderCode, error) {
	return FromSource(Box)
}

// LoadBundle reads the stages from the spvpack archive at path.
func LoadBundle(path string) (vkr.ShaderCode, error) {
	f, err := spvpack.OpenFile(path)
	if err != nil {
		return vkr.ShaderCode{}, err
	}
	defer f.Close()
	return FromSource(archiveSource{f.Archive})
}

// FromSource reads both stages from src and validates them.
func FromSource(src Source) (vkr.ShaderCode, error) {
	var code vkr.ShaderCode
	var err error
	if code.Vertex, err = src.Find(VertexStage); err != nil {
		return vkr.ShaderCode{}, errors.Wrap(err, VertexStage)
	}
	if code.Fragment, err = src.Find(FragmentStage); err != nil {
		return vkr.ShaderCode{}, errors.Wrap(err, FragmentStage)
	}
	return code, code.Validate()
}

type archiveSource struct {
	*spvpack.Archive
}

func (a archiveSource) Find(name string) ([]byte, error) {
	return a.ReadAll(name)
}
