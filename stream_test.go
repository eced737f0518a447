// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestStreamStringRoundTripASCII(t *testing.T) {
	s := NewStream(nil)
	if err := s.WriteString("Core.MyObject"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	s.Seek(0)
	got, err := s.ReadString("v")
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "Core.MyObject" {
		t.Fatalf("got %q, want %q", got, "Core.MyObject")
	}
}

func TestStreamStringRoundTripUTF16(t *testing.T) {
	s := NewStream(nil)
	const value = "日本語"
	if err := s.WriteString(value); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	s.Seek(0)
	got, err := s.ReadString("v")
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != value {
		t.Fatalf("got %q, want %q", got, value)
	}
}

func TestStreamStringEmpty(t *testing.T) {
	s := NewStream(nil)
	if err := s.WriteString(""); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	s.Seek(0)
	got, err := s.ReadString("v")
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestStreamGUIDRoundTrip(t *testing.T) {
	s := NewStream(nil)
	want := GUID{0x11223344, 0x55667788, 0x9abcdef0, 0xdeadbeef}
	s.WriteGUID(want)
	s.Seek(0)
	got, err := s.ReadGUID("g")
	if err != nil {
		t.Fatalf("ReadGUID: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStreamCompactIndexRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 63, 64, -64, 8191, -8191, 1 << 20, -(1 << 20)} {
		s := NewStream(nil)
		s.WriteCompactIndex(v)
		s.Seek(0)
		got, err := s.ReadCompactIndex("v")
		if err != nil {
			t.Fatalf("ReadCompactIndex(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("ReadCompactIndex round trip: got %d, want %d", got, v)
		}
	}
}

func TestStreamDetectByteOrder(t *testing.T) {
	s := NewStream(nil)
	if !s.DetectByteOrder(PackageFileTagLittleEndian) {
		t.Fatalf("little-endian tag rejected")
	}
	if !s.DetectByteOrder(PackageFileTagSwapped) {
		t.Fatalf("swapped tag rejected")
	}
	if s.DetectByteOrder(0xDEADBEEF) {
		t.Fatalf("garbage tag accepted")
	}
}

func TestStreamReadPastEOF(t *testing.T) {
	s := NewStream([]byte{1, 2})
	if _, err := s.ReadU32("x"); err == nil {
		t.Fatalf("expected an error reading 4 bytes from a 2-byte stream")
	}
}
