// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// GUID is four little-endian 32-bit words, 16 bytes total (spec.md §3).
type GUID [4]uint32

// PackageIndex is the signed encoding used everywhere objects
// cross-reference each other: 0 means none, n>0 refers to Exports[n-1],
// n<0 refers to Imports[-n-1]. It MUST round-trip verbatim.
type PackageIndex int32

// IsNone reports whether the index resolves to no object.
func (i PackageIndex) IsNone() bool { return i == 0 }

// IsExport reports whether the index refers to the Exports table.
func (i PackageIndex) IsExport() bool { return i > 0 }

// IsImport reports whether the index refers to the Imports table.
func (i PackageIndex) IsImport() bool { return i < 0 }

// ExportIndex returns the zero-based index into Exports. Only valid when
// IsExport() is true.
func (i PackageIndex) ExportIndex() int { return int(i) - 1 }

// ImportIndex returns the zero-based index into Imports. Only valid when
// IsImport() is true.
func (i PackageIndex) ImportIndex() int { return int(-i) - 1 }

// ExportPackageIndex builds the PackageIndex for Exports[i].
func ExportPackageIndex(i int) PackageIndex { return PackageIndex(i + 1) }

// ImportPackageIndex builds the PackageIndex for Imports[i].
func ImportPackageIndex(i int) PackageIndex { return PackageIndex(-(i + 1)) }
