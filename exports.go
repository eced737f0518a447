// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// ExportEntry describes an object stored in this package (spec.md §3).
// Invariant: SerialOffset+SerialSize <= file length; SerialSize >= 0;
// ClassIndex refers to an import, an export, or 0 (meaning Class).
type ExportEntry struct {
	ClassIndex     PackageIndex
	SuperIndex     PackageIndex
	OuterIndex     PackageIndex
	ObjectName     NameRef
	ArchetypeIndex PackageIndex
	HasArchetype   bool

	ObjectFlags uint64

	SerialSize   int64
	SerialOffset int64

	ComponentMap   []ComponentMapEntry
	HasComponentMap bool

	ExportFlags   uint32
	HasExportFlags bool

	NetObjectCount []int32
	HasNetObjects  bool

	PackageGUID GUID
	HasPackageGUID bool

	PackageFlagsMirror uint32
	HasPackageFlagsMirror bool
}

// ComponentMapEntry names a templated component, gated in by
// spec.md §4.E's "optional component map".
type ComponentMapEntry struct {
	Name   NameRef
	Export PackageIndex
}

// readExportTable reads ExportCount entries at ExportOffset using the
// branch-selected shape (spec.md §4.E). fileLength bounds the
// SerialOffset+SerialSize invariant check.
func readExportTable(pkg *Package, s *Stream, sum *Summary, fileLength uint32) ([]ExportEntry, error) {
	s.Seek(uint32(sum.ExportOffset))
	entries := make([]ExportEntry, 0, sum.ExportCount)
	for i := int32(0); i < sum.ExportCount; i++ {
		e, err := readExportEntry(pkg, s, sum)
		if err != nil {
			return nil, err
		}
		if e.SerialSize < 0 {
			return nil, newError(FormatError, int64(s.Pos()), "export %d has negative serial size %d", i, e.SerialSize)
		}
		if e.SerialOffset+e.SerialSize > int64(fileLength) {
			pkg.reportAnomaly(Diagnostic{
				Kind:    DiagAnomaly,
				Message: "export serial range extends past end of file",
				Offset:  e.SerialOffset,
			})
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readExportEntry(pkg *Package, s *Stream, sum *Summary) (ExportEntry, error) {
	var e ExportEntry

	classIdx, err := s.ReadI32("export.class_index")
	if err != nil {
		return e, err
	}
	e.ClassIndex = PackageIndex(classIdx)

	superIdx, err := s.ReadI32("export.super_index")
	if err != nil {
		return e, err
	}
	e.SuperIndex = PackageIndex(superIdx)

	outerIdx, err := s.ReadI32("export.outer_index")
	if err != nil {
		return e, err
	}
	e.OuterIndex = PackageIndex(outerIdx)

	objName, err := s.ReadNameRef("export.object_name")
	if err != nil {
		return e, err
	}
	e.ObjectName = objName

	if sum.Version >= AddedArchetypeIndex {
		at, err := s.ReadI32("export.archetype_index")
		if err != nil {
			return e, err
		}
		e.ArchetypeIndex = PackageIndex(at)
		e.HasArchetype = true
	}

	if sum.Version >= Added64BitObjectFlags {
		flags, err := s.ReadU64("export.object_flags")
		if err != nil {
			return e, err
		}
		e.ObjectFlags = flags
	} else {
		flags, err := s.ReadU32("export.object_flags32")
		if err != nil {
			return e, err
		}
		e.ObjectFlags = uint64(flags)
	}

	if sum.Version < AddedArchetypeIndex {
		// UE1: packed-int serial size/offset.
		size, err := s.ReadCompactIndex("export.serial_size")
		if err != nil {
			return e, err
		}
		e.SerialSize = int64(size)
		if size != 0 {
			off, err := s.ReadCompactIndex("export.serial_offset")
			if err != nil {
				return e, err
			}
			e.SerialOffset = int64(off)
		}
	} else {
		size, err := s.ReadI32("export.serial_size")
		if err != nil {
			return e, err
		}
		e.SerialSize = int64(size)
		off, err := s.ReadI32("export.serial_offset")
		if err != nil {
			return e, err
		}
		e.SerialOffset = int64(off)
	}

	if sum.Version >= AddedComponentMap {
		count, err := s.ReadI32("export.component_map_count")
		if err != nil {
			return e, err
		}
		e.HasComponentMap = true
		e.ComponentMap = make([]ComponentMapEntry, count)
		for i := range e.ComponentMap {
			name, err := s.ReadNameRef("export.component.name")
			if err != nil {
				return e, err
			}
			idx, err := s.ReadI32("export.component.export")
			if err != nil {
				return e, err
			}
			e.ComponentMap[i] = ComponentMapEntry{Name: name, Export: PackageIndex(idx)}
		}
	}

	if sum.Version >= AddedExportFlags {
		flags, err := s.ReadU32("export.export_flags")
		if err != nil {
			return e, err
		}
		e.ExportFlags = flags
		e.HasExportFlags = true
	}

	if sum.Version >= AddedNetObjectCount {
		count, err := s.ReadI32("export.net_object_count")
		if err != nil {
			return e, err
		}
		e.HasNetObjects = true
		e.NetObjectCount = make([]int32, count)
		for i := range e.NetObjectCount {
			e.NetObjectCount[i], err = s.ReadI32("export.net_object")
			if err != nil {
				return e, err
			}
		}
		g, err := s.ReadGUID("export.package_guid")
		if err != nil {
			return e, err
		}
		e.PackageGUID = g
		e.HasPackageGUID = true
	}

	if sum.Version >= AddedPackageGUIDMirror {
		flags, err := s.ReadU32("export.package_flags_mirror")
		if err != nil {
			return e, err
		}
		e.PackageFlagsMirror = flags
		e.HasPackageFlagsMirror = true
	}

	return e, nil
}

func writeExportTable(pkg *Package, s *Stream, sum *Summary) error {
	sum.ExportOffset = int32(s.Pos())
	sum.ExportCount = int32(len(pkg.Exports))
	for _, e := range pkg.Exports {
		s.WriteI32(int32(e.ClassIndex))
		s.WriteI32(int32(e.SuperIndex))
		s.WriteI32(int32(e.OuterIndex))
		s.WriteNameRef(e.ObjectName)

		if sum.Version >= AddedArchetypeIndex {
			s.WriteI32(int32(e.ArchetypeIndex))
		}
		if sum.Version >= Added64BitObjectFlags {
			s.WriteU64(e.ObjectFlags)
		} else {
			s.WriteU32(uint32(e.ObjectFlags))
		}

		if sum.Version < AddedArchetypeIndex {
			s.WriteCompactIndex(int32(e.SerialSize))
			if e.SerialSize != 0 {
				s.WriteCompactIndex(int32(e.SerialOffset))
			}
		} else {
			s.WriteI32(int32(e.SerialSize))
			s.WriteI32(int32(e.SerialOffset))
		}

		if sum.Version >= AddedComponentMap {
			s.WriteI32(int32(len(e.ComponentMap)))
			for _, c := range e.ComponentMap {
				s.WriteNameRef(c.Name)
				s.WriteI32(int32(c.Export))
			}
		}
		if sum.Version >= AddedExportFlags {
			s.WriteU32(e.ExportFlags)
		}
		if sum.Version >= AddedNetObjectCount {
			s.WriteI32(int32(len(e.NetObjectCount)))
			for _, n := range e.NetObjectCount {
				s.WriteI32(n)
			}
			s.WriteGUID(e.PackageGUID)
		}
		if sum.Version >= AddedPackageGUIDMirror {
			s.WriteU32(e.PackageFlagsMirror)
		}
	}
	return nil
}
