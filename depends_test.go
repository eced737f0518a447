// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"reflect"
	"testing"
)

func TestDependsTableRoundTrip(t *testing.T) {
	pkg := newPackage(nil)
	sum := &Summary{ExportCount: 3}
	pkg.Depends = [][]PackageIndex{
		{ExportPackageIndex(1), ImportPackageIndex(0)},
		{},
		{ImportPackageIndex(2)},
	}

	s := NewStream(nil)
	if err := writeDependsTable(pkg, s, sum); err != nil {
		t.Fatalf("writeDependsTable: %v", err)
	}

	s.Seek(0)
	sum.DependsOffset = 0
	got, err := readDependsTable(pkg, s, sum)
	if err != nil {
		t.Fatalf("readDependsTable: %v", err)
	}
	if !reflect.DeepEqual(got, pkg.Depends) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, pkg.Depends)
	}
}
