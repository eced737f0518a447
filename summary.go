// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// CustomVersion is one entry of a UE4 custom-version list: a GUID
// identifying the system plus the version number that system was
// serialized at.
type CustomVersion struct {
	Key     GUID
	Version int32
}

// Generation is a historical save-point of a package (spec.md Glossary).
type Generation struct {
	ExportCount    int32
	NameCount      int32
	NetObjectCount int32
}

// CompressedChunk describes one block of a chunk-compressed package.
// Decompression itself is an external collaborator (spec.md §1).
type CompressedChunk struct {
	UncompressedOffset uint32
	UncompressedSize   uint32
	CompressedOffset   uint32
	CompressedSize     uint32
}

// Thumbnail is a {class, object path, data offset} descriptor; the pixel
// data at DataOffset is read lazily by external consumers (spec.md §4.E).
type Thumbnail struct {
	ClassName  string
	ObjectPath string
	DataOffset uint32
}

// TextureAllocation is one entry of the texture-allocations table.
type TextureAllocation struct {
	Width, Height, Format, NumMips uint32
	TextureFlags                   uint32
	ExportIndices                  []int32
}

// Summary is the mutable descriptor carrying the package header, per
// spec.md §3.
type Summary struct {
	Tag             uint32
	LegacyVersion   int32 // negative for UE4+
	Version         int32
	LicenseeVersion int32

	// UE4/UE5 fields, populated only when LegacyVersion < 0.
	UE4FileVersion      int32
	UE4LicenseeVersion  int32
	CustomVersions      []CustomVersion
	LocalizationID      string
	GatherableTextCount uint32
	GatherableTextOffset uint32

	PackageFlags uint32
	HeaderSize   uint32
	FolderName   string

	NameCount, NameOffset     int32
	ExportCount, ExportOffset int32
	ImportCount, ImportOffset int32

	HeritageCount, HeritageOffset int32

	DependsOffset int32

	StringAssetReferencesCount, StringAssetReferencesOffset int32
	SearchableNamesOffset                                   int32

	ImportGuidsCount, ExportGuidsCount, ImportExportGuidsOffset int32

	ThumbnailTableOffset int32

	GUID GUID

	Generations []Generation

	EngineVersion        uint32
	CookerVersion         uint32

	CompressionFlags  uint32
	CompressedChunks  []CompressedChunk

	PackageSource uint32

	AdditionalPackagesToCook []string

	TextureAllocations []TextureAllocation

	// UE4-only tails.
	AssetRegistryDataOffset     int32
	BulkDataStartOffset         int32
	WorldTileInfoDataOffset     int32
	ChunkIDs                    []int32
	PreloadDependencyCount      int32
	PreloadDependencyOffset     int32

	// Branch-specific scratch fields, populated by hooks (spec.md §4.C).
	HMSExtra uint32
}

// isUE4 reports whether LegacyVersion signals a UE4/UE5 header.
func (sum *Summary) isUE4() bool { return sum.LegacyVersion < 0 }

// ReadSummary implements the 23-step sequence of spec.md §4.D.
func ReadSummary(pkg *Package, s *Stream) (*Summary, error) {
	sum := &Summary{}

	// Step 1: signature + endianness.
	if s.Pos() != 0 {
		s.Seek(0)
	}
	raw, err := s.ReadU32("tag")
	if err != nil {
		return nil, err
	}
	if !s.DetectByteOrder(raw) {
		return nil, &Error{Kind: BadSignature, Offset: 0, Message: "signature matches neither package magic", Err: ErrBadSignature}
	}
	sum.Tag = raw

	// Step 2: legacy version / packed version+licensee, or UE4 header.
	legacy, err := s.ReadI32("legacy_version")
	if err != nil {
		return nil, err
	}
	sum.LegacyVersion = legacy

	if legacy < 0 {
		if legacy < -7 {
			return nil, &Error{Kind: UnsupportedVersion, Offset: int64(s.Pos()), Message: "legacy version below -7", Err: ErrUnsupportedVersion}
		}
		if legacy != -4 {
			ue3v, err := s.ReadI32("ue3_version")
			if err != nil {
				return nil, err
			}
			sum.Version = ue3v
		}
		fileVer, err := s.ReadI32("ue4_file_version")
		if err != nil {
			return nil, err
		}
		licVer, err := s.ReadI32("ue4_licensee_version")
		if err != nil {
			return nil, err
		}
		sum.UE4FileVersion = fileVer
		sum.UE4LicenseeVersion = licVer
		sum.LicenseeVersion = licVer

		if fileVer >= UE4CookedVersionRangeLow && fileVer < UE4CookedVersionRangeHigh {
			if _, err := s.ReadBytes("ue4.cooked_version_pair", 8); err != nil {
				return nil, err
			}
		}

		if err := readCustomVersions(s, sum); err != nil {
			return nil, err
		}
	} else {
		sum.Version = legacy & 0xFFFF
		sum.LicenseeVersion = (legacy >> 16) & 0xFFFF
	}

	// Step 3: build detection + platform + overrides.
	build := DetectBuild(sum.Version, sum.LicenseeVersion, sum.isUE4(), pkg.opts.Platform)
	if pkg.opts.OverrideVersion != nil {
		sum.Version = *pkg.opts.OverrideVersion
	} else if build.OverrideVersion != nil {
		sum.Version = *build.OverrideVersion
	}
	if pkg.opts.OverrideLicenseeVersion != nil {
		sum.LicenseeVersion = *pkg.opts.OverrideLicenseeVersion
	} else if build.OverrideLicenseeVersion != nil {
		sum.LicenseeVersion = *build.OverrideLicenseeVersion
	}
	pkg.Build = build

	// Step 4: branch setup.
	pkg.Branch = NewBranch(build.BranchKey)
	if err := pkg.Branch.PostDeserializeSummary(pkg, s, sum); err != nil {
		return nil, err
	}

	// Step 5: header size.
	if sum.Version >= AddedTotalHeaderSize {
		v, err := s.ReadU32("header_size")
		if err != nil {
			return nil, err
		}
		sum.HeaderSize = v
	}

	// Step 6: folder name.
	if sum.Version >= AddedFolderName {
		v, err := s.ReadString("folder_name")
		if err != nil {
			return nil, err
		}
		sum.FolderName = v
		pkg.Platform = DetectPlatformFromFolder(v)
	}

	// Step 7: package flags.
	if v, err := s.ReadU32("package_flags"); err != nil {
		return nil, err
	} else {
		sum.PackageFlags = v
	}

	// Step 8: Name count/offset, then UE4 localization/gatherable text.
	if v, err := s.ReadI32("name_count"); err != nil {
		return nil, err
	} else {
		sum.NameCount = v
	}
	if v, err := s.ReadI32("name_offset"); err != nil {
		return nil, err
	} else {
		sum.NameOffset = v
	}
	if sum.isUE4() {
		if sum.UE4FileVersion >= UE4AddedLocalizationID {
			v, err := s.ReadString("localization_id")
			if err != nil {
				return nil, err
			}
			sum.LocalizationID = v
		}
		if sum.UE4FileVersion >= UE4GatherableTextData {
			if v, err := s.ReadU32("gatherable_text_count"); err != nil {
				return nil, err
			} else {
				sum.GatherableTextCount = v
			}
			if v, err := s.ReadU32("gatherable_text_offset"); err != nil {
				return nil, err
			} else {
				sum.GatherableTextOffset = v
			}
		}
	}

	// Step 9: Export / Import counts+offsets.
	if err := readCountOffset(s, "export", &sum.ExportCount, &sum.ExportOffset); err != nil {
		return nil, err
	}
	if err := readCountOffset(s, "import", &sum.ImportCount, &sum.ImportOffset); err != nil {
		return nil, err
	}

	// Step 10: heritage (pre-generations) short-circuit.
	if sum.Version < HeritageTableDeprecated {
		if err := readCountOffset(s, "heritage", &sum.HeritageCount, &sum.HeritageOffset); err != nil {
			return nil, err
		}
		return finishSummary(pkg, s, sum)
	}

	// Step 11: depends offset.
	if sum.Version >= AddedDependsTable {
		if v, err := s.ReadI32("depends_offset"); err != nil {
			return nil, err
		} else {
			sum.DependsOffset = v
		}
	}

	// Step 12: string-asset-references / searchable-names (UE4).
	if sum.isUE4() {
		if err := readCountOffset(s, "string_asset_refs", &sum.StringAssetReferencesCount, &sum.StringAssetReferencesOffset); err != nil {
			return nil, err
		}
		if v, err := s.ReadI32("searchable_names_offset"); err != nil {
			return nil, err
		} else {
			sum.SearchableNamesOffset = v
		}
	}

	// Step 13: ImportExportGUIDs (UE3 only).
	if !sum.isUE4() && sum.Version >= AddedImportExportGuidsTable {
		if v, err := s.ReadI32("import_export_guids_offset"); err != nil {
			return nil, err
		} else {
			sum.ImportExportGuidsOffset = v
		}
		if v, err := s.ReadI32("import_guids_count"); err != nil {
			return nil, err
		} else {
			sum.ImportGuidsCount = v
		}
		if v, err := s.ReadI32("export_guids_count"); err != nil {
			return nil, err
		} else {
			sum.ExportGuidsCount = v
		}
	}

	// Step 14: thumbnail table offset.
	if sum.Version >= AddedThumbnailTable {
		if v, err := s.ReadI32("thumbnail_table_offset"); err != nil {
			return nil, err
		} else {
			sum.ThumbnailTableOffset = v
		}
	}

	// Step 15: GUID.
	if g, err := s.ReadGUID("guid"); err != nil {
		return nil, err
	} else {
		sum.GUID = g
	}

	// Step 16: generations.
	genCount, err := s.ReadI32("generation_count")
	if err != nil {
		return nil, err
	}
	if genCount < 0 {
		return nil, newError(FormatError, int64(s.Pos()), "negative generation count %d", genCount)
	}
	sum.Generations = make([]Generation, genCount)
	for i := range sum.Generations {
		ec, err := s.ReadI32("generation.export_count")
		if err != nil {
			return nil, err
		}
		nc, err := s.ReadI32("generation.name_count")
		if err != nil {
			return nil, err
		}
		noc, err := s.ReadI32("generation.net_object_count")
		if err != nil {
			return nil, err
		}
		sum.Generations[i] = Generation{ExportCount: ec, NameCount: nc, NetObjectCount: noc}
	}

	// Step 17: engine version.
	if sum.isUE4() {
		if v, err := s.ReadU32("engine_version.changelist"); err != nil {
			return nil, err
		} else {
			sum.EngineVersion = v
		}
		if _, err := s.ReadBytes("engine_version.compatible", 4); err != nil {
			return nil, err
		}
	} else {
		if v, err := s.ReadU32("engine_version"); err != nil {
			return nil, err
		} else {
			sum.EngineVersion = v
		}
	}

	// Step 18: cooker version.
	if v, err := s.ReadU32("cooker_version"); err != nil {
		return nil, err
	} else {
		sum.CookerVersion = v
	}

	// Step 19: compression.
	if sum.Version >= CompressionAdded {
		if v, err := s.ReadU32("compression_flags"); err != nil {
			return nil, err
		} else {
			sum.CompressionFlags = v
		}
		chunkCount, err := s.ReadI32("compressed_chunk_count")
		if err != nil {
			return nil, err
		}
		if chunkCount < 0 {
			return nil, newError(FormatError, int64(s.Pos()), "negative compressed chunk count %d", chunkCount)
		}
		sum.CompressedChunks = make([]CompressedChunk, chunkCount)
		for i := range sum.CompressedChunks {
			uo, _ := s.ReadU32("chunk.uncompressed_offset")
			us, _ := s.ReadU32("chunk.uncompressed_size")
			co, _ := s.ReadU32("chunk.compressed_offset")
			cs, err := s.ReadU32("chunk.compressed_size")
			if err != nil {
				return nil, err
			}
			sum.CompressedChunks[i] = CompressedChunk{uo, us, co, cs}
		}
	}

	// Step 20: package source.
	if sum.Version >= AddedPackageSource {
		if v, err := s.ReadU32("package_source"); err != nil {
			return nil, err
		} else {
			sum.PackageSource = v
		}
	}

	// Step 21: additional packages to cook.
	if sum.Version >= AddedAdditionalPackagesToCook {
		count, err := s.ReadI32("additional_packages_count")
		if err != nil {
			return nil, err
		}
		sum.AdditionalPackagesToCook = make([]string, count)
		for i := range sum.AdditionalPackagesToCook {
			v, err := s.ReadString("additional_package")
			if err != nil {
				return nil, err
			}
			sum.AdditionalPackagesToCook[i] = v
		}
	}

	// Step 22: texture allocations.
	if sum.Version >= AddedTextureAllocations {
		if err := readTextureAllocations(s, sum); err != nil {
			pkg.reportAnomaly(Diagnostic{Kind: DiagTableDropped, Message: "texture allocations dropped: " + err.Error(), Offset: int64(s.Pos())})
		}
	}

	// Step 23: UE4-only tails.
	if sum.isUE4() {
		if v, err := s.ReadI32("asset_registry_offset"); err != nil {
			return nil, err
		} else {
			sum.AssetRegistryDataOffset = v
		}
		if v, err := s.ReadI32("bulk_data_start_offset"); err != nil {
			return nil, err
		} else {
			sum.BulkDataStartOffset = v
		}
		if v, err := s.ReadI32("world_tile_info_offset"); err != nil {
			return nil, err
		} else {
			sum.WorldTileInfoDataOffset = v
		}
		chunkCount, err := s.ReadI32("chunk_id_count")
		if err == nil && chunkCount > 0 {
			sum.ChunkIDs = make([]int32, chunkCount)
			for i := range sum.ChunkIDs {
				sum.ChunkIDs[i], _ = s.ReadI32("chunk_id")
			}
		}
		if v, err := s.ReadI32("preload_dependency_count"); err == nil {
			sum.PreloadDependencyCount = v
		}
		if v, err := s.ReadI32("preload_dependency_offset"); err == nil {
			sum.PreloadDependencyOffset = v
		}
	}

	return finishSummary(pkg, s, sum)
}

func finishSummary(pkg *Package, s *Stream, sum *Summary) (*Summary, error) {
	pkg.Summary = sum
	if err := pkg.Branch.PostDeserializePackage(pkg, s); err != nil {
		return nil, err
	}
	checkHeaderSizeInvariant(pkg, sum)
	return sum, nil
}

func readCountOffset(s *Stream, name string, count, offset *int32) error {
	c, err := s.ReadI32(name + "_count")
	if err != nil {
		return err
	}
	o, err := s.ReadI32(name + "_offset")
	if err != nil {
		return err
	}
	*count, *offset = c, o
	return nil
}

func readCustomVersions(s *Stream, sum *Summary) error {
	switch {
	case sum.LegacyVersion == -2:
		n, err := s.ReadI32("custom_versions.count")
		if err != nil {
			return err
		}
		sum.CustomVersions = make([]CustomVersion, n)
		for i := range sum.CustomVersions {
			tag, err := s.ReadI32("custom_version.tag")
			if err != nil {
				return err
			}
			v, err := s.ReadI32("custom_version.version")
			if err != nil {
				return err
			}
			sum.CustomVersions[i] = CustomVersion{Key: GUID{uint32(tag), 0, 0, 0}, Version: v}
		}
	case sum.LegacyVersion <= -3 && sum.LegacyVersion >= -5:
		n, err := s.ReadI32("custom_versions.count")
		if err != nil {
			return err
		}
		sum.CustomVersions = make([]CustomVersion, n)
		for i := range sum.CustomVersions {
			g, err := s.ReadGUID("custom_version.guid")
			if err != nil {
				return err
			}
			v, err := s.ReadI32("custom_version.version")
			if err != nil {
				return err
			}
			sum.CustomVersions[i] = CustomVersion{Key: g, Version: v}
		}
	case sum.LegacyVersion <= -6:
		n, err := s.ReadI32("custom_versions.count")
		if err != nil {
			return err
		}
		sum.CustomVersions = make([]CustomVersion, n)
		for i := range sum.CustomVersions {
			g, err := s.ReadGUID("custom_version.guid")
			if err != nil {
				return err
			}
			v, err := s.ReadI32("custom_version.version")
			if err != nil {
				return err
			}
			sum.CustomVersions[i] = CustomVersion{Key: g, Version: v}
		}
	}
	return nil
}

func readTextureAllocations(s *Stream, sum *Summary) error {
	count, err := s.ReadI32("texture_allocation_count")
	if err != nil {
		return err
	}
	sum.TextureAllocations = make([]TextureAllocation, 0, count)
	for i := int32(0); i < count; i++ {
		w, _ := s.ReadU32("texalloc.width")
		h, _ := s.ReadU32("texalloc.height")
		format, _ := s.ReadU32("texalloc.format")
		mips, _ := s.ReadU32("texalloc.num_mips")
		flags, err := s.ReadU32("texalloc.flags")
		if err != nil {
			return err
		}
		exportCount, err := s.ReadI32("texalloc.export_count")
		if err != nil {
			return err
		}
		indices := make([]int32, exportCount)
		for j := range indices {
			indices[j], _ = s.ReadI32("texalloc.export_index")
		}
		sum.TextureAllocations = append(sum.TextureAllocations, TextureAllocation{
			Width: w, Height: h, Format: format, NumMips: mips, TextureFlags: flags, ExportIndices: indices,
		})
	}
	return nil
}

func checkHeaderSizeInvariant(pkg *Package, sum *Summary) {
	furthest := uint32(0)
	for _, off := range []int32{sum.NameOffset, sum.ImportOffset, sum.ExportOffset, sum.DependsOffset, sum.ImportExportGuidsOffset, sum.ThumbnailTableOffset} {
		if off > 0 && uint32(off) > furthest {
			furthest = uint32(off)
		}
	}
	if sum.HeaderSize != 0 && sum.HeaderSize < furthest {
		pkg.reportAnomaly(Diagnostic{Kind: DiagAnomaly, Message: AnoHeaderSizeTooSmall, Offset: int64(sum.HeaderSize)})
	}
}
