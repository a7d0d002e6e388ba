// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package spvpack

import (
	"bytes"
	"io"
	"math"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// Bounds on what an untrusted index may claim.
const (
	maxHeaderSize = 16 << 20
	maxEntrySize  = 64 << 20
)

// Open opens the archive from r. It will also check if the data is
// actually an spvpack archive, returning ErrFileFormat if not.
func Open(r io.ReaderAt) (*Archive, error) {
	prefix := make([]byte, MagicLength+HeaderSizeNumberLength)
	if _, err := r.ReadAt(prefix, 0); err != nil {
		if err == io.EOF {
			return nil, ErrFileFormat
		}
		return nil, errors.Wrap(err, "read archive prefix")
	}
	if !bytes.Equal(prefix[:MagicLength], magic[:]) {
		return nil, ErrFileFormat
	}

	headerSize := binaryToInt64(prefix[MagicLength:])
	if headerSize <= 0 || headerSize > maxHeaderSize {
		return nil, errors.Wrapf(ErrFileFormat, "header size %d", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := r.ReadAt(headerBytes, int64(len(prefix))); err != nil {
		return nil, errors.Wrap(ErrFileFormat, "truncated header")
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, errors.Wrap(ErrFileFormat, err.Error())
	}
	if err := header.validate(); err != nil {
		return nil, err
	}

	return &Archive{
		reader: r,
		header: header,
		base:   int64(len(prefix)) + headerSize,
	}, nil
}

func (h *Header) validate() error {
	for _, e := range h.Index {
		switch {
		case e.Size < 0 || e.Size > maxEntrySize:
			return errors.Wrapf(ErrFileFormat, "entry %s: size %d", e.Name, e.Size)
		case e.CompressedSize < 0 || e.CompressedSize > maxEntrySize:
			return errors.Wrapf(ErrFileFormat, "entry %s: compressed size %d", e.Name, e.CompressedSize)
		case e.Offset < 0 || e.Offset > math.MaxInt64-e.CompressedSize:
			return errors.Wrapf(ErrFileFormat, "entry %s: offset %d", e.Name, e.Offset)
		}
	}
	return nil
}

// Archive provides concurrent io for an spvpack file, and can provide
// an io.Reader for each entry separately.
type Archive struct {
	reader io.ReaderAt
	header Header
	base   int64
}

// Header returns the archive header with its index.
func (a *Archive) Header() Header {
	return a.header
}

// Names lists the entries in archive order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.header.Index))
	for idx, e := range a.header.Index {
		names[idx] = e.Name
	}
	return names
}

// Open returns a reader of the decompressed entry name.
func (a *Archive) Open(name string) (io.Reader, error) {
	entry, ok := a.header.Lookup(name)
	if !ok {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	section := io.NewSectionReader(a.reader, a.base+entry.Offset, entry.CompressedSize)
	return lz4.NewReader(section), nil
}

// ReadAll returns the entire decompressed contents of entry name.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	entry, ok := a.header.Lookup(name)
	if !ok {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}

	data := make([]byte, entry.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Wrapf(ErrFileFormat, "entry %s: %s", name, err)
	}
	return data, nil
}

// File is an archive memory mapped from disk.
type File struct {
	*Archive
	mapped *mmap.ReaderAt
}

// OpenFile memory maps the archive at path.
func OpenFile(path string) (*File, error) {
	mapped, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", path)
	}
	ar, err := Open(mapped)
	if err != nil {
		mapped.Close()
		return nil, err
	}
	return &File{Archive: ar, mapped: mapped}, nil
}

// Close unmaps the file, readers from it become invalid.
func (f *File) Close() error {
	return f.mapped.Close()
}
