// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestResolveExportGraph(t *testing.T) {
	pkg := newPackage(nil)
	pkg.Names = []NameEntry{{Value: "Core"}, {Value: "MyObject"}, {Value: "MyClass"}}
	pkg.Exports = []ExportEntry{
		{ObjectName: NameRef{Index: 2}}, // export 0: the class
		{ObjectName: NameRef{Index: 1}, ClassIndex: ExportPackageIndex(0)}, // export 1: instance of export 0
	}

	obj, err := pkg.Resolve(ExportPackageIndex(1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if obj.Name != "MyObject" {
		t.Fatalf("Name = %q, want MyObject", obj.Name)
	}
	if obj.Class == nil || obj.Class.Name != "MyClass" {
		t.Fatalf("Class = %+v, want MyClass", obj.Class)
	}
}

func TestResolveCyclicOuterTerminates(t *testing.T) {
	pkg := newPackage(nil)
	pkg.Names = []NameEntry{{Value: "A"}, {Value: "B"}}
	// Export 0's Outer is export 1, whose Outer is export 0: a cycle.
	pkg.Exports = []ExportEntry{
		{ObjectName: NameRef{Index: 0}, OuterIndex: ExportPackageIndex(1)},
		{ObjectName: NameRef{Index: 1}, OuterIndex: ExportPackageIndex(0)},
	}

	obj, err := pkg.Resolve(ExportPackageIndex(0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	_, err = OuterChain(obj)
	if err != ErrCyclicOuterChain {
		t.Fatalf("OuterChain err = %v, want ErrCyclicOuterChain", err)
	}
}

func TestResolveImportChain(t *testing.T) {
	pkg := newPackage(nil)
	pkg.Names = []NameEntry{{Value: "Engine"}, {Value: "Class"}, {Value: "Texture2D"}}
	pkg.Imports = []ImportEntry{
		{ObjectName: NameRef{Index: 0}}, // import 0: package Engine, no outer
		{ObjectName: NameRef{Index: 2}, ClassName: NameRef{Index: 1}, OuterIndex: ImportPackageIndex(0)},
	}

	obj, err := pkg.Resolve(ImportPackageIndex(1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if obj.Name != "Texture2D" {
		t.Fatalf("Name = %q, want Texture2D", obj.Name)
	}
	if obj.Outer == nil || obj.Outer.Name != "Engine" {
		t.Fatalf("Outer = %+v, want Engine", obj.Outer)
	}
}
