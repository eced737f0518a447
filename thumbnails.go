// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"bytes"
	"io"
)

// readThumbnailTable reads the {class, object path, data offset}
// descriptors at ThumbnailTableOffset (spec.md §4.E). Pixel data is not
// read here: OpenThumbnail reads it lazily, on demand.
func readThumbnailTable(pkg *Package, s *Stream, sum *Summary) ([]Thumbnail, error) {
	s.Seek(uint32(sum.ThumbnailTableOffset))
	count, err := s.ReadI32("thumbnail_count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, newError(FormatError, int64(s.Pos()), "negative thumbnail count %d", count)
	}
	thumbs := make([]Thumbnail, count)
	for i := range thumbs {
		className, err := s.ReadString("thumbnail.class_name")
		if err != nil {
			return nil, err
		}
		objectPath, err := s.ReadString("thumbnail.object_path")
		if err != nil {
			return nil, err
		}
		offset, err := s.ReadU32("thumbnail.data_offset")
		if err != nil {
			return nil, err
		}
		thumbs[i] = Thumbnail{ClassName: className, ObjectPath: objectPath, DataOffset: offset}
	}
	return thumbs, nil
}

func writeThumbnailTable(pkg *Package, s *Stream, sum *Summary) error {
	sum.ThumbnailTableOffset = int32(s.Pos())
	s.WriteI32(int32(len(pkg.Thumbnails)))
	for _, t := range pkg.Thumbnails {
		if err := s.WriteString(t.ClassName); err != nil {
			return err
		}
		if err := s.WriteString(t.ObjectPath); err != nil {
			return err
		}
		s.WriteU32(t.DataOffset)
	}
	return nil
}

// OpenThumbnail lazily reads the image body for t at t.DataOffset: a width
// and a height dword, followed by a length-prefixed byte blob. The returned reader aliases the package's backing
// buffer and must not outlive it.
func (pkg *Package) OpenThumbnail(t Thumbnail) (io.ReadCloser, uint32, uint32, error) {
	if pkg.stream == nil {
		return nil, 0, 0, newError(FormatError, -1, "package has no backing stream to read thumbnail data from")
	}
	saved := pkg.stream.Pos()
	defer pkg.stream.Seek(saved)

	pkg.stream.Seek(t.DataOffset)
	width, err := pkg.stream.ReadU32("thumbnail.width")
	if err != nil {
		return nil, 0, 0, err
	}
	height, err := pkg.stream.ReadU32("thumbnail.height")
	if err != nil {
		return nil, 0, 0, err
	}
	size, err := pkg.stream.ReadU32("thumbnail.data_size")
	if err != nil {
		return nil, 0, 0, err
	}
	raw, err := pkg.stream.ReadBytes("thumbnail.data", size)
	if err != nil {
		return nil, 0, 0, err
	}
	return io.NopCloser(bytes.NewReader(raw)), width, height, nil
}
