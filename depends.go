// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// readDependsTable reads one count-prefixed list of PackageIndex per
// export, starting at DependsOffset (spec.md §4.E). A malformed list is
// non-fatal: the caller drops the whole table and logs a diagnostic
// instead of aborting the load.
func readDependsTable(pkg *Package, s *Stream, sum *Summary) ([][]PackageIndex, error) {
	s.Seek(uint32(sum.DependsOffset))
	depends := make([][]PackageIndex, sum.ExportCount)
	for i := range depends {
		count, err := s.ReadI32("depends.count")
		if err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, newError(FormatError, int64(s.Pos()), "export %d has negative depends count %d", i, count)
		}
		list := make([]PackageIndex, count)
		for j := range list {
			idx, err := s.ReadI32("depends.index")
			if err != nil {
				return nil, err
			}
			list[j] = PackageIndex(idx)
		}
		depends[i] = list
	}
	return depends, nil
}

func writeDependsTable(pkg *Package, s *Stream, sum *Summary) error {
	sum.DependsOffset = int32(s.Pos())
	for _, list := range pkg.Depends {
		s.WriteI32(int32(len(list)))
		for _, idx := range list {
			s.WriteI32(int32(idx))
		}
	}
	return nil
}
