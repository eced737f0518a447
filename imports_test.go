// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"reflect"
	"testing"
)

func TestImportTableRoundTrip(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{}
	pkg.Imports = []ImportEntry{
		{
			ClassPackage: NameRef{Index: 0},
			ClassName:    NameRef{Index: 1},
			OuterIndex:   0,
			ObjectName:   NameRef{Index: 2, Instance: 3},
		},
		{
			ClassPackage: NameRef{Index: 3},
			ClassName:    NameRef{Index: 4},
			OuterIndex:   ImportPackageIndex(0),
			ObjectName:   NameRef{Index: 5},
		},
	}

	s := NewStream(nil)
	if err := writeImportTable(pkg, s, sum); err != nil {
		t.Fatalf("writeImportTable: %v", err)
	}
	if sum.ImportCount != 2 {
		t.Fatalf("ImportCount = %d, want 2", sum.ImportCount)
	}

	s.Seek(0)
	sum.ImportOffset = 0
	got, err := readImportTable(pkg, s, sum)
	if err != nil {
		t.Fatalf("readImportTable: %v", err)
	}
	if !reflect.DeepEqual(got, pkg.Imports) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, pkg.Imports)
	}
}
