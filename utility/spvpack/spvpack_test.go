// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package spvpack_test

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkb/utility/spvpack"
)

var testHeader = spvpack.Header{
	Author:      "devblok",
	DateCreated: 1565395200,
	Version:     3,
}

var testEntries = map[string][]byte{
	"triangle.vert.spv": bytes.Repeat([]byte{0x03, 0x02, 0x23, 0x07}, 300),
	"triangle.frag.spv": bytes.Repeat([]byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}, 120),
	"empty.spv":         {},
}

func buildArchive(c *qt.C) []byte {
	b := spvpack.NewBuilder(testHeader)
	for name, data := range testEntries {
		c.Assert(b.Add(name, bytes.NewReader(data)), qt.IsNil)
	}
	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(out.Len()))
	return out.Bytes()
}

func TestBuildAndRead(t *testing.T) {
	c := qt.New(t)
	ar, err := spvpack.Open(bytes.NewReader(buildArchive(c)))
	c.Assert(err, qt.IsNil)

	header := ar.Header()
	c.Assert(header.Author, qt.Equals, testHeader.Author)
	c.Assert(header.Version, qt.Equals, testHeader.Version)
	c.Assert(ar.Names(), qt.DeepEquals, []string{"empty.spv", "triangle.frag.spv", "triangle.vert.spv"})

	for name, want := range testEntries {
		got, err := ar.ReadAll(name)
		c.Assert(err, qt.IsNil, qt.Commentf("entry %s", name))
		c.Assert(got, qt.DeepEquals, want, qt.Commentf("entry %s", name))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	c := qt.New(t)
	c.Assert(buildArchive(c), qt.DeepEquals, buildArchive(c))
}

func TestOpenStream(t *testing.T) {
	c := qt.New(t)
	ar, err := spvpack.Open(bytes.NewReader(buildArchive(c)))
	c.Assert(err, qt.IsNil)

	r, err := ar.Open("triangle.vert.spv")
	c.Assert(err, qt.IsNil)
	got, err := ioutil.ReadAll(r)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, testEntries["triangle.vert.spv"])
}

func TestMissingEntry(t *testing.T) {
	c := qt.New(t)
	ar, err := spvpack.Open(bytes.NewReader(buildArchive(c)))
	c.Assert(err, qt.IsNil)

	_, err = ar.ReadAll("nope.spv")
	c.Assert(errors.Is(err, spvpack.ErrNotFound), qt.IsTrue)
	_, err = ar.Open("nope.spv")
	c.Assert(errors.Is(err, spvpack.ErrNotFound), qt.IsTrue)
}

func TestOpenRejectsGarbage(t *testing.T) {
	c := qt.New(t)
	valid := buildArchive(c)

	for name, data := range map[string][]byte{
		"empty":       {},
		"short":       []byte("SPK"),
		"wrong magic": append([]byte("KAR\x00"), valid[4:]...),
		"truncated":   valid[:20],
	} {
		_, err := spvpack.Open(bytes.NewReader(data))
		c.Assert(errors.Is(err, spvpack.ErrFileFormat), qt.IsTrue, qt.Commentf("case %s: %v", name, err))
	}
}

func craftArchive(c *qt.C, header spvpack.Header) []byte {
	var encoded bytes.Buffer
	c.Assert(gob.NewEncoder(&encoded).Encode(header), qt.IsNil)

	out := []byte("SPK\x00")
	out = binary.LittleEndian.AppendUint64(out, uint64(encoded.Len()))
	return append(out, encoded.Bytes()...)
}

func TestOpenRejectsBadIndex(t *testing.T) {
	c := qt.New(t)
	for name, entry := range map[string]spvpack.IndexEntry{
		"huge size":            {Name: "x", Size: 1 << 62, CompressedSize: 4},
		"negative size":        {Name: "x", Size: -1, CompressedSize: 4},
		"huge compressed size": {Name: "x", Size: 4, CompressedSize: 1 << 62},
		"negative offset":      {Name: "x", Offset: -8, Size: 4, CompressedSize: 4},
		"overflowing offset":   {Name: "x", Offset: 1<<63 - 2, Size: 4, CompressedSize: 4},
	} {
		data := craftArchive(c, spvpack.Header{Index: []spvpack.IndexEntry{entry}})
		_, err := spvpack.Open(bytes.NewReader(data))
		c.Assert(errors.Is(err, spvpack.ErrFileFormat), qt.IsTrue, qt.Commentf("case %s: %v", name, err))
	}
}

func TestReadAllTruncatedEntry(t *testing.T) {
	c := qt.New(t)
	data := craftArchive(c, spvpack.Header{Index: []spvpack.IndexEntry{
		{Name: "x", Size: 1024, CompressedSize: 512},
	}})
	ar, err := spvpack.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	_, err = ar.ReadAll("x")
	c.Assert(errors.Is(err, spvpack.ErrFileFormat), qt.IsTrue)
}

func TestDuplicateEntry(t *testing.T) {
	c := qt.New(t)
	b := spvpack.NewBuilder(testHeader)
	c.Assert(b.Add("a.spv", strings.NewReader("abcd")), qt.IsNil)
	c.Assert(b.Add("a.spv", strings.NewReader("efgh")), qt.ErrorMatches, "duplicate entry a.spv")
	c.Assert(b.Len(), qt.Equals, 1)
}

func TestConcurrentAdd(t *testing.T) {
	c := qt.New(t)
	b := spvpack.NewBuilder(testHeader)

	var wg sync.WaitGroup
	for name, data := range testEntries {
		wg.Add(1)
		go func(name string, data []byte) {
			defer wg.Done()
			c.Check(b.Add(name, bytes.NewReader(data)), qt.IsNil)
		}(name, data)
	}
	wg.Wait()
	c.Assert(b.Len(), qt.Equals, len(testEntries))
}

func TestOpenFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "shaders.spk")
	c.Assert(ioutil.WriteFile(path, buildArchive(c), 0644), qt.IsNil)

	f, err := spvpack.OpenFile(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()

	got, err := f.ReadAll("triangle.frag.spv")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, testEntries["triangle.frag.spv"])
}

func TestOpenFileMissing(t *testing.T) {
	c := qt.New(t)
	_, err := spvpack.OpenFile(filepath.Join(c.TempDir(), "absent.spk"))
	c.Assert(err, qt.ErrorMatches, "map .*absent.spk: .*")
}

func BenchmarkReadAll(b *testing.B) {
	builder := spvpack.NewBuilder(testHeader)
	data := testEntries["triangle.vert.spv"]
	if err := builder.Add("triangle.vert.spv", bytes.NewReader(data)); err != nil {
		b.Fatal(err)
	}
	var out bytes.Buffer
	if _, err := builder.WriteTo(&out); err != nil {
		b.Fatal(err)
	}
	ar, err := spvpack.Open(bytes.NewReader(out.Bytes()))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ar.ReadAll("triangle.vert.spv"); err != nil {
			b.Fatal(err)
		}
	}
}
