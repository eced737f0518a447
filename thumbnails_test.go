// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"io"
	"reflect"
	"testing"
)

func TestThumbnailTableRoundTrip(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{}
	pkg.Thumbnails = []Thumbnail{
		{ClassName: "Texture2D", ObjectPath: "MyPackage.MyTexture", DataOffset: 128},
	}

	s := NewStream(nil)
	if err := writeThumbnailTable(pkg, s, sum); err != nil {
		t.Fatalf("writeThumbnailTable: %v", err)
	}

	s.Seek(0)
	sum.ThumbnailTableOffset = 0
	got, err := readThumbnailTable(pkg, s, sum)
	if err != nil {
		t.Fatalf("readThumbnailTable: %v", err)
	}
	if !reflect.DeepEqual(got, pkg.Thumbnails) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, pkg.Thumbnails)
	}
}

func TestOpenThumbnailReadsPixelBody(t *testing.T) {
	pkg := newPackage(nil)
	s := NewStream(nil)
	s.WriteU32(64)
	s.WriteU32(32)
	body := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	s.WriteU32(uint32(len(body)))
	s.WriteBytes(body)
	pkg.stream = s

	rc, width, height, err := pkg.OpenThumbnail(Thumbnail{DataOffset: 0})
	if err != nil {
		t.Fatalf("OpenThumbnail: %v", err)
	}
	defer rc.Close()
	if width != 64 || height != 32 {
		t.Fatalf("dimensions = %dx%d, want 64x32", width, height)
	}
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !reflect.DeepEqual(got, body) {
		t.Fatalf("body = %x, want %x", got, body)
	}
}
