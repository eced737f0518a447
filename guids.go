// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// ImportGUIDEntry pairs an import-table index with the GUID of the
// package it was last bound against (spec.md §4.E).
type ImportGUIDEntry struct {
	ImportIndex int32
	GUID        GUID
}

// ExportGUIDEntry pairs an export's GUID with its export-table index
// (spec.md §4.E). The GUID comes first on the wire, unlike ImportGUIDEntry.
type ExportGUIDEntry struct {
	GUID        GUID
	ExportIndex int32
}

// readImportExportGUIDs reads the UE3-only ImportExportGUIDs table:
// ImportGuidsCount (import-index, GUID) pairs followed by ExportGuidsCount
// (GUID, export-index) pairs, at ImportExportGuidsOffset (spec.md §4.E).
// Like Depends, a parse failure is non-fatal and the whole table is dropped.
func readImportExportGUIDs(pkg *Package, s *Stream, sum *Summary) ([]ImportGUIDEntry, []ExportGUIDEntry, error) {
	s.Seek(uint32(sum.ImportExportGuidsOffset))

	importGUIDs := make([]ImportGUIDEntry, sum.ImportGuidsCount)
	for i := range importGUIDs {
		idx, err := s.ReadI32("import_guid.index")
		if err != nil {
			return nil, nil, err
		}
		g, err := s.ReadGUID("import_guid.guid")
		if err != nil {
			return nil, nil, err
		}
		importGUIDs[i] = ImportGUIDEntry{ImportIndex: idx, GUID: g}
	}

	exportGUIDs := make([]ExportGUIDEntry, sum.ExportGuidsCount)
	for i := range exportGUIDs {
		g, err := s.ReadGUID("export_guid.guid")
		if err != nil {
			return nil, nil, err
		}
		idx, err := s.ReadI32("export_guid.index")
		if err != nil {
			return nil, nil, err
		}
		exportGUIDs[i] = ExportGUIDEntry{GUID: g, ExportIndex: idx}
	}

	return importGUIDs, exportGUIDs, nil
}

func writeImportExportGUIDs(pkg *Package, s *Stream, sum *Summary) error {
	sum.ImportExportGuidsOffset = int32(s.Pos())
	sum.ImportGuidsCount = int32(len(pkg.ImportGUIDs))
	sum.ExportGuidsCount = int32(len(pkg.ExportGUIDs))
	for _, e := range pkg.ImportGUIDs {
		s.WriteI32(e.ImportIndex)
		s.WriteGUID(e.GUID)
	}
	for _, e := range pkg.ExportGUIDs {
		s.WriteGUID(e.GUID)
		s.WriteI32(e.ExportIndex)
	}
	return nil
}
