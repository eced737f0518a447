// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"reflect"
	"testing"
)

func TestExportTableRoundTripModern(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{Version: AddedExportFlags}
	pkg.Exports = []ExportEntry{
		{
			ClassIndex:     ImportPackageIndex(0),
			SuperIndex:     0,
			OuterIndex:     0,
			ObjectName:     NameRef{Index: 1, Instance: 2},
			ArchetypeIndex: 0,
			ObjectFlags:    0x1,
			SerialSize:     128,
			SerialOffset:   64,
			ComponentMap:   []ComponentMapEntry{{Name: NameRef{Index: 2}, Export: ExportPackageIndex(0)}},
			ExportFlags:    0x2,
			NetObjectCount: []int32{0, 1},
			PackageGUID:    GUID{1, 2, 3, 4},
			PackageFlagsMirror: 0x40,
		},
	}

	s := NewStream(nil)
	if err := writeExportTable(pkg, s, sum); err != nil {
		t.Fatalf("writeExportTable: %v", err)
	}

	s.Seek(0)
	sum.ExportOffset = 0
	got, err := readExportTable(pkg, s, sum, uint32(s.Len()))
	if err != nil {
		t.Fatalf("readExportTable: %v", err)
	}
	want := append([]ExportEntry(nil), pkg.Exports...)
	want[0].HasArchetype = true
	want[0].HasComponentMap = true
	want[0].HasExportFlags = true
	want[0].HasNetObjects = true
	want[0].HasPackageGUID = true
	want[0].HasPackageFlagsMirror = true
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestExportTableRoundTripLegacy(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{Version: AddedArchetypeIndex - 1}
	pkg.Exports = []ExportEntry{
		{
			ClassIndex:   0,
			SuperIndex:   0,
			OuterIndex:   0,
			ObjectName:   NameRef{Index: 0},
			ObjectFlags:  0x3,
			SerialSize:   17,
			SerialOffset: 9,
		},
		{
			// SerialSize == 0: UE1's compact-index offset is omitted on write
			// and must read back as zero, not whatever follows in the stream.
			ClassIndex:   0,
			SuperIndex:   0,
			OuterIndex:   0,
			ObjectName:   NameRef{Index: 0},
			ObjectFlags:  0,
			SerialSize:   0,
			SerialOffset: 0,
		},
	}

	s := NewStream(nil)
	if err := writeExportTable(pkg, s, sum); err != nil {
		t.Fatalf("writeExportTable: %v", err)
	}

	s.Seek(0)
	sum.ExportOffset = 0
	got, err := readExportTable(pkg, s, sum, uint32(s.Len()))
	if err != nil {
		t.Fatalf("readExportTable: %v", err)
	}
	if !reflect.DeepEqual(got, pkg.Exports) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, pkg.Exports)
	}
}
