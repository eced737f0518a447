// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// ImportEntry is a reference to an object stored in another package
// (spec.md §3).
type ImportEntry struct {
	ClassPackage NameRef
	ClassName    NameRef
	OuterIndex   PackageIndex
	ObjectName   NameRef
}

// readImportTable reads ImportCount entries at ImportOffset (spec.md
// §4.E): class-package name, class name, outer-index, object name.
func readImportTable(pkg *Package, s *Stream, sum *Summary) ([]ImportEntry, error) {
	s.Seek(uint32(sum.ImportOffset))
	entries := make([]ImportEntry, 0, sum.ImportCount)
	for i := int32(0); i < sum.ImportCount; i++ {
		classPkg, err := s.ReadNameRef("import.class_package")
		if err != nil {
			return nil, err
		}
		className, err := s.ReadNameRef("import.class_name")
		if err != nil {
			return nil, err
		}
		outer, err := s.ReadI32("import.outer_index")
		if err != nil {
			return nil, err
		}
		objName, err := s.ReadNameRef("import.object_name")
		if err != nil {
			return nil, err
		}
		entries = append(entries, ImportEntry{
			ClassPackage: classPkg,
			ClassName:    className,
			OuterIndex:   PackageIndex(outer),
			ObjectName:   objName,
		})
	}
	return entries, nil
}

func writeImportTable(pkg *Package, s *Stream, sum *Summary) error {
	sum.ImportOffset = int32(s.Pos())
	sum.ImportCount = int32(len(pkg.Imports))
	for _, e := range pkg.Imports {
		s.WriteNameRef(e.ClassPackage)
		s.WriteNameRef(e.ClassName)
		s.WriteI32(int32(e.OuterIndex))
		s.WriteNameRef(e.ObjectName)
	}
	return nil
}
