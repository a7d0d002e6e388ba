// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkb/utility/spvpack"
)

func writeFile(c *qt.C, path string, data []byte) {
	c.Assert(os.MkdirAll(filepath.Dir(path), 0755), qt.IsNil)
	c.Assert(ioutil.WriteFile(path, data, 0644), qt.IsNil)
}

func TestCompressAndExtract(t *testing.T) {
	c := qt.New(t)
	src := c.TempDir()
	writeFile(c, filepath.Join(src, "triangle.vert.spv"), []byte{3, 2, 35, 7})
	writeFile(c, filepath.Join(src, "extra", "blur.frag.spv"), []byte{3, 2, 35, 7, 1, 0, 0, 0})
	writeFile(c, filepath.Join(src, "triangle.vert"), []byte("#version 450"))

	bundle := filepath.Join(c.TempDir(), "out.spk")
	c.Assert(compressFiles(src, bundle), qt.IsNil)
	c.Assert(compressFiles(src, bundle), qt.ErrorMatches, "destination file .* exists, will not overwrite")

	dst := c.TempDir()
	c.Assert(extractFiles(bundle, dst), qt.IsNil)

	got, err := ioutil.ReadFile(filepath.Join(dst, "extra", "blur.frag.spv"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []byte{3, 2, 35, 7, 1, 0, 0, 0})

	_, err = os.Stat(filepath.Join(dst, "triangle.vert"))
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestCompressEmpty(t *testing.T) {
	c := qt.New(t)
	src := c.TempDir()
	err := compressFiles(src, filepath.Join(c.TempDir(), "out.spk"))
	c.Assert(err, qt.ErrorMatches, "no .spv files in .*")
}

func TestExtractRejectsEscapingNames(t *testing.T) {
	c := qt.New(t)
	root := c.TempDir()

	for _, name := range []string{"../evil.spv", "a/../../evil.spv", "/tmp/evil.spv"} {
		b := spvpack.NewBuilder(spvpack.Header{})
		c.Assert(b.Add(name, bytes.NewReader([]byte{3, 2, 35, 7})), qt.IsNil)

		bundle := filepath.Join(c.TempDir(), "evil.spk")
		f, err := os.Create(bundle)
		c.Assert(err, qt.IsNil)
		_, err = b.WriteTo(f)
		c.Assert(err, qt.IsNil)
		c.Assert(f.Close(), qt.IsNil)

		dst := filepath.Join(root, "out")
		c.Assert(extractFiles(bundle, dst), qt.ErrorMatches, `entry ".*": .*`, qt.Commentf("name %s", name))
	}

	_, err := os.Stat(filepath.Join(root, "evil.spv"))
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestEntryPath(t *testing.T) {
	c := qt.New(t)
	got, err := entryPath("out", "extra/../blur.frag.spv")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, filepath.Join("out", "blur.frag.spv"))
}
