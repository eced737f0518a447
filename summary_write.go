// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// WriteSummary is the mirror image of ReadSummary: it serializes
// pkg.Summary in the same 23-step order (spec.md §4.D, §8 "Save is the
// mirror image of Load"). Callers that build a Package without Load must
// set enough of Summary (at minimum Version/LicenseeVersion) for the
// version gates below to pick the right shape; Save fills in Build/Branch
// automatically when they are unset.
func WriteSummary(pkg *Package, s *Stream) error {
	sum := pkg.Summary
	if sum == nil {
		sum = &Summary{}
		pkg.Summary = sum
	}
	if pkg.Build.BranchKey == "" {
		pkg.Build = DetectBuild(sum.Version, sum.LicenseeVersion, sum.isUE4(), pkg.Platform)
	}
	if pkg.Branch == nil {
		pkg.Branch = NewBranch(pkg.Build.BranchKey)
	}

	// Step 1: signature.
	tag := sum.Tag
	if tag == 0 {
		tag = PackageFileTagLittleEndian
	}
	s.WriteU32(tag)

	// Step 2: legacy version / packed version+licensee, or UE4 header.
	if sum.isUE4() {
		s.WriteI32(sum.LegacyVersion)
		if sum.LegacyVersion != -4 {
			s.WriteI32(sum.Version)
		}
		s.WriteI32(sum.UE4FileVersion)
		s.WriteI32(sum.UE4LicenseeVersion)
		if sum.UE4FileVersion >= UE4CookedVersionRangeLow && sum.UE4FileVersion < UE4CookedVersionRangeHigh {
			s.WriteBytes(make([]byte, 8))
		}
		writeCustomVersions(s, sum)
	} else {
		legacy := sum.Version | (sum.LicenseeVersion << 16)
		s.WriteI32(legacy)
	}

	// Step 4: branch hook, same position as the read side's step 4 (right
	// after version detection, before the header-size field).
	if err := pkg.Branch.PostSerializeSummary(pkg, s, sum); err != nil {
		return err
	}

	// Step 5: header size.
	if sum.Version >= AddedTotalHeaderSize {
		s.WriteU32(sum.HeaderSize)
	}

	// Step 6: folder name.
	if sum.Version >= AddedFolderName {
		if err := s.WriteString(sum.FolderName); err != nil {
			return err
		}
	}

	// Step 7: package flags.
	s.WriteU32(sum.PackageFlags)

	// Step 8: name count/offset, then UE4 localization/gatherable text.
	s.WriteI32(sum.NameCount)
	s.WriteI32(sum.NameOffset)
	if sum.isUE4() {
		if sum.UE4FileVersion >= UE4AddedLocalizationID {
			if err := s.WriteString(sum.LocalizationID); err != nil {
				return err
			}
		}
		if sum.UE4FileVersion >= UE4GatherableTextData {
			s.WriteU32(sum.GatherableTextCount)
			s.WriteU32(sum.GatherableTextOffset)
		}
	}

	// Step 9: export/import counts+offsets.
	s.WriteI32(sum.ExportCount)
	s.WriteI32(sum.ExportOffset)
	s.WriteI32(sum.ImportCount)
	s.WriteI32(sum.ImportOffset)

	// Step 10: heritage short-circuit.
	if sum.Version < HeritageTableDeprecated {
		s.WriteI32(sum.HeritageCount)
		s.WriteI32(sum.HeritageOffset)
		return finishWriteSummary(pkg, s, sum)
	}

	// Step 11: depends offset.
	if sum.Version >= AddedDependsTable {
		s.WriteI32(sum.DependsOffset)
	}

	// Step 12: string-asset-references / searchable-names (UE4).
	if sum.isUE4() {
		s.WriteI32(sum.StringAssetReferencesCount)
		s.WriteI32(sum.StringAssetReferencesOffset)
		s.WriteI32(sum.SearchableNamesOffset)
	}

	// Step 13: ImportExportGUIDs (UE3 only).
	if !sum.isUE4() && sum.Version >= AddedImportExportGuidsTable {
		s.WriteI32(sum.ImportExportGuidsOffset)
		s.WriteI32(sum.ImportGuidsCount)
		s.WriteI32(sum.ExportGuidsCount)
	}

	// Step 14: thumbnail table offset.
	if sum.Version >= AddedThumbnailTable {
		s.WriteI32(sum.ThumbnailTableOffset)
	}

	// Step 15: GUID.
	s.WriteGUID(sum.GUID)

	// Step 16: generations.
	s.WriteI32(int32(len(sum.Generations)))
	for _, g := range sum.Generations {
		s.WriteI32(g.ExportCount)
		s.WriteI32(g.NameCount)
		s.WriteI32(g.NetObjectCount)
	}

	// Step 17: engine version.
	if sum.isUE4() {
		s.WriteU32(sum.EngineVersion)
		s.WriteBytes(make([]byte, 4))
	} else {
		s.WriteU32(sum.EngineVersion)
	}

	// Step 18: cooker version.
	s.WriteU32(sum.CookerVersion)

	// Step 19: compression.
	if sum.Version >= CompressionAdded {
		s.WriteU32(sum.CompressionFlags)
		s.WriteI32(int32(len(sum.CompressedChunks)))
		for _, c := range sum.CompressedChunks {
			s.WriteU32(c.UncompressedOffset)
			s.WriteU32(c.UncompressedSize)
			s.WriteU32(c.CompressedOffset)
			s.WriteU32(c.CompressedSize)
		}
	}

	// Step 20: package source.
	if sum.Version >= AddedPackageSource {
		s.WriteU32(sum.PackageSource)
	}

	// Step 21: additional packages to cook.
	if sum.Version >= AddedAdditionalPackagesToCook {
		s.WriteI32(int32(len(sum.AdditionalPackagesToCook)))
		for _, p := range sum.AdditionalPackagesToCook {
			if err := s.WriteString(p); err != nil {
				return err
			}
		}
	}

	// Step 22: texture allocations.
	if sum.Version >= AddedTextureAllocations {
		writeTextureAllocations(s, sum)
	}

	// Step 23: UE4-only tails.
	if sum.isUE4() {
		s.WriteI32(sum.AssetRegistryDataOffset)
		s.WriteI32(sum.BulkDataStartOffset)
		s.WriteI32(sum.WorldTileInfoDataOffset)
		s.WriteI32(int32(len(sum.ChunkIDs)))
		for _, id := range sum.ChunkIDs {
			s.WriteI32(id)
		}
		s.WriteI32(sum.PreloadDependencyCount)
		s.WriteI32(sum.PreloadDependencyOffset)
	}

	return finishWriteSummary(pkg, s, sum)
}

func finishWriteSummary(pkg *Package, s *Stream, sum *Summary) error {
	return pkg.Branch.PostSerializePackage(pkg, s)
}

func writeCustomVersions(s *Stream, sum *Summary) {
	switch {
	case sum.LegacyVersion == -2:
		s.WriteI32(int32(len(sum.CustomVersions)))
		for _, cv := range sum.CustomVersions {
			s.WriteI32(int32(cv.Key[0]))
			s.WriteI32(cv.Version)
		}
	case sum.LegacyVersion <= -3 && sum.LegacyVersion >= -5:
		s.WriteI32(int32(len(sum.CustomVersions)))
		for _, cv := range sum.CustomVersions {
			s.WriteGUID(cv.Key)
			s.WriteI32(cv.Version)
		}
	case sum.LegacyVersion <= -6:
		s.WriteI32(int32(len(sum.CustomVersions)))
		for _, cv := range sum.CustomVersions {
			s.WriteGUID(cv.Key)
			s.WriteI32(cv.Version)
		}
	}
}

func writeTextureAllocations(s *Stream, sum *Summary) {
	s.WriteI32(int32(len(sum.TextureAllocations)))
	for _, t := range sum.TextureAllocations {
		s.WriteU32(t.Width)
		s.WriteU32(t.Height)
		s.WriteU32(t.Format)
		s.WriteU32(t.NumMips)
		s.WriteU32(t.TextureFlags)
		s.WriteI32(int32(len(t.ExportIndices)))
		for _, idx := range t.ExportIndices {
			s.WriteI32(idx)
		}
	}
}
