// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr implements the vulkan renderer behind core.Renderer.
//
// All GPU objects are plain fields of Renderer and are only touched from
// the frame loop goroutine. The render pass and pipeline are built once,
// the swapchain, its image views and the framebuffers are rebuilt
// whenever the surface changes.
package vkr

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/pkg/errors"
)

// Setup failures, all of them are fatal.
var (
	ErrMissingExtension = errors.New("required extension is not supported")
	ErrMissingLayer     = errors.New("required layer is not supported")
	ErrNoDevice         = errors.New("no vulkan capable physical device")
	ErrNoQueueFamily    = errors.New("no queue family supports both graphics and present")
)

// noTimeout makes fence waits and image acquisition block indefinitely.
const noTimeout = uint(math.MaxUint64)

// SliceUint32 reslices bytes into a uint32, that is used
// to sumbit vulkan shaders for processing
func SliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}

// missing returns every name of required that is not in available,
// in the order of required.
func missing(available, required []string) []string {
	set := make(map[string]struct{}, len(available))
	for _, name := range available {
		set[name] = struct{}{}
	}
	var out []string
	for _, name := range required {
		if _, ok := set[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func vkErr(fn string, err error) error {
	return errors.Wrap(err, fn+"()")
}
