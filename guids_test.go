// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"reflect"
	"testing"
)

func TestImportExportGUIDsRoundTrip(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{}
	pkg.ImportGUIDs = []ImportGUIDEntry{
		{ImportIndex: 0, GUID: GUID{1, 2, 3, 4}},
		{ImportIndex: 1, GUID: GUID{5, 6, 7, 8}},
	}
	pkg.ExportGUIDs = []ExportGUIDEntry{
		{GUID: GUID{9, 10, 11, 12}, ExportIndex: 0},
	}

	s := NewStream(nil)
	if err := writeImportExportGUIDs(pkg, s, sum); err != nil {
		t.Fatalf("writeImportExportGUIDs: %v", err)
	}

	s.Seek(0)
	sum.ImportExportGuidsOffset = 0
	gotImport, gotExport, err := readImportExportGUIDs(pkg, s, sum)
	if err != nil {
		t.Fatalf("readImportExportGUIDs: %v", err)
	}
	if !reflect.DeepEqual(gotImport, pkg.ImportGUIDs) {
		t.Fatalf("import GUIDs mismatch: got %+v, want %+v", gotImport, pkg.ImportGUIDs)
	}
	if !reflect.DeepEqual(gotExport, pkg.ExportGUIDs) {
		t.Fatalf("export GUIDs mismatch: got %+v, want %+v", gotExport, pkg.ExportGUIDs)
	}
}
