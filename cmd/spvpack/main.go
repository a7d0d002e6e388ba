// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command spvpack builds, lists and extracts shader bundles.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkb/utility/spvpack"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Username
	}
}

var currentUserName string

var (
	author   = flag.String("author", "", "Set the author of the bundle when compressing (default current user)")
	version  = flag.Int64("version", 1, "Bundle version number to create it with")
	extract  = flag.String("e", "", "Extract the given bundle into the -d directory")
	compress = flag.String("c", "", "Compress the .spv files of the given folder")
	list     = flag.String("l", "", "List the entries of the given bundle")
	dstFile  = flag.String("f", "shaders.spk", "Destination file")
	dstDir   = flag.String("d", ".", "Destination directory for extraction")
	silent   = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	ops := 0
	for _, op := range []string{*extract, *compress, *list} {
		if op != "" {
			ops++
		}
	}

	var err error
	switch {
	case ops > 1:
		err = errors.New("only one operation at a time")
	case *compress != "":
		err = compressFiles(*compress, *dstFile)
	case *extract != "":
		err = extractFiles(*extract, *dstDir)
	case *list != "":
		err = listFiles(*list)
	default:
		flag.PrintDefaults()
	}

	if err != nil {
		log.WithError(err).Error("spvpack")
		os.Exit(1)
	}
}

func collect(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".spv" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func compressFiles(root, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.Errorf("destination file %s exists, will not overwrite", dst)
	}

	files, err := collect(root)
	if err != nil {
		return errors.Wrapf(err, "walk %s", root)
	}
	if len(files) == 0 {
		return errors.Errorf("no .spv files in %s", root)
	}

	name := *author
	if name == "" {
		name = currentUserName
	}
	builder := spvpack.NewBuilder(spvpack.Header{
		Author:      name,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})

	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := addFile(builder, filepath.ToSlash(rel), path); err != nil {
			return err
		}
		log.WithField("entry", rel).Info("added")
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	n, err := builder.WriteTo(out)
	if err != nil {
		out.Close()
		return errors.Wrapf(err, "write %s", dst)
	}
	log.WithFields(log.Fields{"file": dst, "bytes": n, "entries": len(files)}).Info("bundle written")
	return out.Close()
}

func addFile(b *spvpack.Builder, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Add(name, f)
}

func extractFiles(bundle, dir string) error {
	f, err := spvpack.OpenFile(bundle)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, name := range f.Names() {
		data, err := f.ReadAll(name)
		if err != nil {
			return err
		}
		dst, err := entryPath(dir, name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := ioutil.WriteFile(dst, data, 0644); err != nil {
			return err
		}
		log.WithField("entry", name).Info("extracted")
	}
	return nil
}

// entryPath resolves an entry name under dir, names that would land
// outside of it are rejected.
func entryPath(dir, name string) (string, error) {
	local := filepath.FromSlash(name)
	if name == "" || filepath.IsAbs(local) || strings.HasPrefix(name, "/") {
		return "", errors.Errorf("entry %q: not a relative path", name)
	}
	clean := filepath.Clean(local)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("entry %q: escapes destination", name)
	}
	return filepath.Join(dir, clean), nil
}

func listFiles(bundle string) error {
	f, err := spvpack.OpenFile(bundle)
	if err != nil {
		return err
	}
	defer f.Close()

	h := f.Header()
	fmt.Printf("author %s, version %d, created %s\n", h.Author, h.Version, time.Unix(h.DateCreated, 0).Format(time.RFC3339))
	for _, e := range h.Index {
		fmt.Printf("%8d %8d %s\n", e.Size, e.CompressedSize, e.Name)
	}
	return nil
}
