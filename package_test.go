// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestSaveLoadRoundTrip(t *testing.T) {
	pkg := &Package{
		Summary: &Summary{Version: 60},
		Names: []NameEntry{
			{Value: "Core"},
			{Value: "MyPackage"},
		},
		Imports: []ImportEntry{
			{ClassPackage: NameRef{Index: 0}, ClassName: NameRef{Index: 0}, ObjectName: NameRef{Index: 1}},
		},
		Exports: []ExportEntry{
			{ObjectName: NameRef{Index: 1}, SerialSize: 0, SerialOffset: 0},
		},
	}
	pkg.opts = &LoadOptions{}
	pkg.sink = &sliceSink{}

	data, err := pkg.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadBytes(data, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	defer got.Close()

	if len(got.Names) != 2 || got.Names[0].Value != "Core" || got.Names[1].Value != "MyPackage" {
		t.Fatalf("Names = %+v", got.Names)
	}
	if len(got.Imports) != 1 || got.Imports[0].ObjectName != (NameRef{Index: 1}) {
		t.Fatalf("Imports = %+v", got.Imports)
	}
	if len(got.Exports) != 1 || got.Exports[0].ObjectName != (NameRef{Index: 1}) {
		t.Fatalf("Exports = %+v", got.Exports)
	}
}

func TestLoadBytesStopsAfterSummaryWhenCompressed(t *testing.T) {
	pkg := &Package{Summary: &Summary{Version: 400, CompressionFlags: 1}}
	pkg.opts = &LoadOptions{}
	pkg.sink = &sliceSink{}

	data, err := pkg.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadBytes(data, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	defer got.Close()

	if !got.Compressed {
		t.Fatalf("expected Compressed to be true")
	}
	if len(got.Names) != 0 || len(got.Exports) != 0 {
		t.Fatalf("expected tables to stay empty, got Names=%+v Exports=%+v", got.Names, got.Exports)
	}
}
