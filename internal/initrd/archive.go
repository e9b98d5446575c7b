// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package initrd

import (
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/cavaliergopher/cpio"
)

const numLinks = 2

// WriteArchive writes the file tree of fsys as CPIO newc archive. Regular
// files and directories are supported, which is all a flat initrd needs.
func WriteArchive(w io.Writer, fsys fs.FS) error {
	writer := cpio.NewWriter(w)

	err := fs.WalkDir(fsys, ".", func(
		path string,
		entry fs.DirEntry,
		err error,
	) error {
		if err != nil {
			return err
		}

		if path == "." {
			return nil
		}

		switch {
		case entry.IsDir():
			return writeDirectory(writer, path)
		case entry.Type().IsRegular():
			return writeRegular(writer, fsys, path)
		default:
			return fmt.Errorf("%s: %w", path, ErrFileTypeUnsupported)
		}
	})
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	return nil
}

// FileArchive builds a CPIO newc archive containing the given files at the
// root of the tree. Entries are written in lexical order, so the output is
// deterministic.
func FileArchive(w io.Writer, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	sort.Strings(names)

	writer := cpio.NewWriter(w)

	for _, name := range names {
		header := &cpio.Header{
			Name: name,
			Mode: cpio.TypeReg | 0o644,
			Size: int64(len(files[name])),
		}

		err := writer.WriteHeader(header)
		if err != nil {
			return fmt.Errorf("write header for %s: %w", name, err)
		}

		_, err = writer.Write(files[name])
		if err != nil {
			return fmt.Errorf("write body for %s: %w", name, err)
		}
	}

	err := writer.Close()
	if err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	return nil
}

func writeDirectory(writer *cpio.Writer, path string) error {
	header := &cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | cpio.ModePerm,
		Links: numLinks,
	}

	err := writer.WriteHeader(header)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", path, err)
	}

	return nil
}

func writeRegular(writer *cpio.Writer, fsys fs.FS, path string) error {
	file, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("read info: %w", err)
	}

	header, err := cpio.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("create header: %w", err)
	}

	header.Name = path

	err = writer.WriteHeader(header)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", path, err)
	}

	_, err = io.Copy(writer, file)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}
