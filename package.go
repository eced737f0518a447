// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"github.com/upkio/upk/log"
)

// LoadOptions configures Load/LoadBytes (spec.md §4.A, §9 "Global
// overrides"). A nil *LoadOptions is equivalent to the zero value.
type LoadOptions struct {
	// Platform biases build detection ahead of the folder-name heuristic.
	Platform Platform

	// OverrideVersion/OverrideLicenseeVersion force the detected
	// version/licensee version, taking precedence over both the parsed
	// header and any BuildDescriptor override.
	OverrideVersion         *int32
	OverrideLicenseeVersion *int32

	// Classes is consulted by the resolver in place of the process-wide
	// global registry, when set.
	Classes *ClassRegistry

	// Logger receives structured load/save diagnostics. Defaults to
	// log.DefaultLogger.
	Logger log.Logger

	// Sink receives non-fatal Diagnostics. Defaults to an internal
	// sliceSink whose entries are also flattened into Package.Anomalies.
	Sink DiagnosticSink
}

func (o *LoadOptions) classes() *ClassRegistry {
	if o != nil && o.Classes != nil {
		return o.Classes
	}
	return globalClassRegistry
}

func (o *LoadOptions) logger() log.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return log.DefaultLogger
}

// Package is a loaded Unreal Engine package file: its Summary, the four
// cross-reference tables, and the placeholder Objects materialized for
// each Import/Export entry (spec.md §3).
type Package struct {
	Summary *Summary
	Build   Build
	Branch  Branch

	// Platform starts as opts.Platform and is refined by the folder-name
	// heuristic once the Summary's FolderName is known.
	Platform Platform

	Names   []NameEntry
	Imports []ImportEntry
	Exports []ExportEntry

	// Depends[i] lists the package indices export i depends on. A malformed
	// Depends table is dropped as a whole, not fatal (spec.md §4.E).
	Depends [][]PackageIndex

	ImportGUIDs []ImportGUIDEntry
	ExportGUIDs []ExportGUIDEntry

	Thumbnails []Thumbnail

	// Compressed is true when Load stopped after the Summary because
	// CompressionFlags/CompressedChunks indicate the tables are not
	// directly readable (spec.md §1 Out of scope item c).
	Compressed bool

	// Anomalies is the flattened, human-readable form of every Diagnostic
	// reported during Load/Save, mirroring the teacher's pe.File.Anomalies.
	Anomalies []string

	objects map[PackageIndex]*Object

	opts *LoadOptions
	sink DiagnosticSink
	log  *log.Helper

	stream *Stream
}

func newPackage(opts *LoadOptions) *Package {
	if opts == nil {
		opts = &LoadOptions{}
	}
	sink := opts.Sink
	if sink == nil {
		sink = &sliceSink{}
	}
	return &Package{
		Platform: opts.Platform,
		opts:     opts,
		sink:     sink,
		log:      log.NewHelper(opts.logger()),
		objects:  make(map[PackageIndex]*Object),
	}
}

func (pkg *Package) reportAnomaly(d Diagnostic) {
	pkg.sink.Report(d)
	pkg.Anomalies = append(pkg.Anomalies, d.String())
	pkg.log.Warnf("upk: %s", d.String())
}

// Load memory-maps path and parses it as an Unreal Engine package,
// mirroring the teacher's pe.New/pe.File.Parse split.
func Load(path string, opts *LoadOptions) (*Package, error) {
	s, err := OpenStream(path)
	if err != nil {
		return nil, err
	}
	pkg, err := loadFromStream(s, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	return pkg, nil
}

// LoadBytes parses an in-memory package, useful for embedded or
// already-decompressed data.
func LoadBytes(data []byte, opts *LoadOptions) (*Package, error) {
	return loadFromStream(NewStream(data), opts)
}

func loadFromStream(s *Stream, opts *LoadOptions) (*Package, error) {
	pkg := newPackage(opts)
	pkg.stream = s

	sum, err := ReadSummary(pkg, s)
	if err != nil {
		return nil, err
	}
	pkg.Summary = sum

	if sum.CompressionFlags != 0 || len(sum.CompressedChunks) > 0 {
		pkg.Compressed = true
		pkg.reportAnomaly(Diagnostic{
			Kind:    DiagCompressed,
			Message: "package is chunk-compressed; stopping after Summary",
			Offset:  -1,
		})
		return pkg, nil
	}

	names, err := readNameTable(pkg, s, sum)
	if err != nil {
		return nil, err
	}
	pkg.Names = names

	imports, err := readImportTable(pkg, s, sum)
	if err != nil {
		return nil, err
	}
	pkg.Imports = imports

	fileLength := s.Len()
	exports, err := readExportTable(pkg, s, sum, fileLength)
	if err != nil {
		return nil, err
	}
	pkg.Exports = exports

	if sum.Version >= AddedDependsTable && sum.DependsOffset != 0 {
		depends, err := readDependsTable(pkg, s, sum)
		if err != nil {
			pkg.reportAnomaly(Diagnostic{Kind: DiagTableDropped, Message: "depends table dropped: " + err.Error(), Offset: int64(sum.DependsOffset)})
		} else {
			pkg.Depends = depends
		}
	}

	if !sum.isUE4() && sum.Version >= AddedImportExportGuidsTable && sum.ImportExportGuidsOffset != 0 {
		importGUIDs, exportGUIDs, err := readImportExportGUIDs(pkg, s, sum)
		if err != nil {
			pkg.reportAnomaly(Diagnostic{Kind: DiagTableDropped, Message: "import/export GUIDs table dropped: " + err.Error(), Offset: int64(sum.ImportExportGuidsOffset)})
		} else {
			pkg.ImportGUIDs, pkg.ExportGUIDs = importGUIDs, exportGUIDs
		}
	}

	if sum.Version >= AddedThumbnailTable && sum.ThumbnailTableOffset != 0 {
		thumbs, err := readThumbnailTable(pkg, s, sum)
		if err != nil {
			pkg.reportAnomaly(Diagnostic{Kind: DiagTableDropped, Message: "thumbnail table dropped: " + err.Error(), Offset: int64(sum.ThumbnailTableOffset)})
		} else {
			pkg.Thumbnails = thumbs
		}
	}

	return pkg, nil
}

// Save serializes the package back to bytes, mirroring the sequence
// ReadSummary/readXTable laid out on the way in (spec.md §4.A, §8 "Save is
// the mirror image of Load"). Table offsets are not known until the tables
// are laid out, so the header is written twice: once to reserve its byte
// range, and again once every offset is final, per stream.go's overwrite
// support.
func (pkg *Package) Save() ([]byte, error) {
	sum := pkg.Summary
	if sum == nil {
		sum = &Summary{}
		pkg.Summary = sum
	}
	if len(sum.Generations) == 0 {
		pkg.reportAnomaly(Diagnostic{Kind: DiagAnomaly, Message: AnoGenerationsEmptyOnSave, Offset: -1})
		sum.Generations = []Generation{{
			ExportCount:    int32(len(pkg.Exports)),
			NameCount:      int32(len(pkg.Names)),
			NetObjectCount: 0,
		}}
	}
	sum.NameCount = int32(len(pkg.Names))
	sum.ImportCount = int32(len(pkg.Imports))
	sum.ExportCount = int32(len(pkg.Exports))

	s := NewStream(nil)

	if err := WriteSummary(pkg, s); err != nil {
		return nil, err
	}
	headerLen := s.Pos()

	if err := writeNameTable(pkg, s, sum); err != nil {
		return nil, err
	}
	if err := writeImportTable(pkg, s, sum); err != nil {
		return nil, err
	}
	if err := writeExportTable(pkg, s, sum); err != nil {
		return nil, err
	}
	if len(pkg.Depends) > 0 {
		if err := writeDependsTable(pkg, s, sum); err != nil {
			return nil, err
		}
	}
	if !sum.isUE4() && (len(pkg.ImportGUIDs) > 0 || len(pkg.ExportGUIDs) > 0) {
		if err := writeImportExportGUIDs(pkg, s, sum); err != nil {
			return nil, err
		}
	}
	if len(pkg.Thumbnails) > 0 {
		if err := writeThumbnailTable(pkg, s, sum); err != nil {
			return nil, err
		}
	}
	end := s.Pos()

	sum.HeaderSize = headerLen
	s.Seek(0)
	if err := WriteSummary(pkg, s); err != nil {
		return nil, err
	}
	s.Seek(end)

	return s.Bytes(), nil
}

// Close releases the backing mmap/file, if Load opened one.
func (pkg *Package) Close() error {
	if pkg.stream != nil {
		return pkg.stream.Close()
	}
	return nil
}
