// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestComputeNameHashIsCaseInsensitive(t *testing.T) {
	if ComputeNameHash("MyObject") != ComputeNameHash("myobject") {
		t.Fatalf("ComputeNameHash should be case-insensitive")
	}
	if ComputeNameHash("A") == ComputeNameHash("B") {
		t.Fatalf("distinct names hashed to the same value")
	}
}

func TestNameTableRoundTripUE3(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{Version: Added64BitObjectFlags}
	pkg.Names = []NameEntry{
		{Value: "Core", ObjectFlags: 0x1, HasFlags64: true},
		{Value: "Engine", ObjectFlags: 0x2, HasFlags64: true},
	}

	s := NewStream(nil)
	if err := writeNameTable(pkg, s, sum); err != nil {
		t.Fatalf("writeNameTable: %v", err)
	}

	s.Seek(0)
	sum.NameOffset = 0
	got, err := readNameTable(pkg, s, sum)
	if err != nil {
		t.Fatalf("readNameTable: %v", err)
	}
	if len(got) != 2 || got[0].Value != "Core" || got[1].ObjectFlags != 0x2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestNameTableRoundTripUE4(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{LegacyVersion: -7}
	pkg.Names = []NameEntry{
		{Value: "StaticMesh", NonCasePreservingHash: ComputeNameHash("StaticMesh"), CasePreservingHash: 0xAABB, HasHashes: true},
	}

	s := NewStream(nil)
	if err := writeNameTable(pkg, s, sum); err != nil {
		t.Fatalf("writeNameTable: %v", err)
	}

	s.Seek(0)
	sum.NameOffset = 0
	got, err := readNameTable(pkg, s, sum)
	if err != nil {
		t.Fatalf("readNameTable: %v", err)
	}
	if len(got) != 1 || got[0].Value != "StaticMesh" || !got[0].HasHashes {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got[0].NonCasePreservingHash != uint64(uint32(ComputeNameHash("StaticMesh"))) {
		t.Fatalf("hash = %x, want the 32-bit truncation of ComputeNameHash", got[0].NonCasePreservingHash)
	}
}
