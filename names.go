// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"strconv"
	"strings"

	"github.com/tenfyzhong/cityhash"
)

// NameEntry is a Name-table entry: a string plus per-entry object flags
// and, on later engine versions, precomputed hash fields (spec.md §3).
type NameEntry struct {
	Value      string
	ObjectFlags uint64
	HasFlags64  bool

	// NonCasePreservingHash/CasePreservingHash mirror UE4's
	// FNameEntrySerialized hash fields: CityHash64 of the lowercased
	// name, grounded on GregorBudweiser-UEcastoc/uasset.go's hashString.
	NonCasePreservingHash uint64
	CasePreservingHash    uint64
	HasHashes             bool
}

// ComputeNameHash returns the CityHash64 of the lowercased name, matching
// the hash UE4 stores alongside each Name-table entry.
func ComputeNameHash(name string) uint64 {
	lower := strings.ToLower(name)
	return cityhash.CityHash64([]byte(lower))
}

// readNameTable reads NameCount entries at NameOffset (spec.md §4.E),
// regardless of the stream's current position.
func readNameTable(pkg *Package, s *Stream, sum *Summary) ([]NameEntry, error) {
	s.Seek(uint32(sum.NameOffset))
	entries := make([]NameEntry, 0, sum.NameCount)
	for i := int32(0); i < sum.NameCount; i++ {
		entry, err := readNameEntry(pkg, s, sum)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readNameEntry(pkg *Package, s *Stream, sum *Summary) (NameEntry, error) {
	var e NameEntry

	value, err := s.ReadString("name.value")
	if err != nil {
		return e, err
	}
	e.Value = value

	switch {
	case sum.isUE4():
		// UE4 name entries carry the two hash fields unconditionally.
		nonCase, err := s.ReadU32("name.hash_lo")
		if err != nil {
			return e, err
		}
		caseSens, err := s.ReadU32("name.hash_hi")
		if err != nil {
			return e, err
		}
		e.NonCasePreservingHash = uint64(nonCase)
		e.CasePreservingHash = uint64(caseSens)
		e.HasHashes = true

	case sum.Version >= Added64BitObjectFlags:
		flags, err := s.ReadU64("name.object_flags")
		if err != nil {
			return e, err
		}
		e.ObjectFlags = flags
		e.HasFlags64 = true

	default:
		flags, err := s.ReadU32("name.object_flags32")
		if err != nil {
			return e, err
		}
		e.ObjectFlags = uint64(flags)
	}

	return e, nil
}

func writeNameTable(pkg *Package, s *Stream, sum *Summary) error {
	sum.NameOffset = int32(s.Pos())
	sum.NameCount = int32(len(pkg.Names))
	for _, e := range pkg.Names {
		if err := s.WriteString(e.Value); err != nil {
			return err
		}
		switch {
		case sum.isUE4():
			s.WriteU32(uint32(e.NonCasePreservingHash))
			s.WriteU32(uint32(e.CasePreservingHash))
		case sum.Version >= Added64BitObjectFlags:
			s.WriteU64(e.ObjectFlags)
		default:
			s.WriteU32(uint32(e.ObjectFlags))
		}
	}
	return nil
}

// NameString resolves a NameRef against the package's Name table,
// appending "_<suffix-1>" when Instance != 0 (spec.md §3).
func (pkg *Package) NameString(ref NameRef) string {
	if ref.Index < 0 || int(ref.Index) >= len(pkg.Names) {
		return ""
	}
	base := pkg.Names[ref.Index].Value
	if ref.Instance == 0 {
		return base
	}
	return base + "_" + strconv.Itoa(int(ref.Instance-1))
}
