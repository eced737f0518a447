// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// This file collects the closed set of named licensee branches
// (spec.md §4.C). Each registers itself in branchFactories at init time.
// Most only need the build-specific Summary inserts spec.md §4.D calls
// out by name; branches whose byte layout is speculative (the Open
// Questions of spec.md §9) refuse the build outright instead of guessing.

func init() {
	RegisterBranch("HMS", func() Branch { return &hmsBranch{baseBranch{name: "HMS"}} })
	RegisterBranch("Huxley", func() Branch { return &huxleyBranch{baseBranch{name: "Huxley"}} })
	RegisterBranch("R6Vegas", func() Branch { return &r6VegasBranch{baseBranch{name: "R6Vegas"}} })
	RegisterBranch("DCUO", func() Branch { return &dcuoBranch{baseBranch{name: "DCUO"}} })
	RegisterBranch("Tera", func() Branch { return &teraBranch{baseBranch{name: "Tera"}} })
	RegisterBranch("AA2", func() Branch { return &baseBranch{name: "AA2"} })
	RegisterBranch("DNF", func() Branch { return &baseBranch{name: "DNF"} })
	RegisterBranch("APB", func() Branch { return &baseBranch{name: "APB"} })
	RegisterBranch("RSS", func() Branch { return &baseBranch{name: "RSS"} })
	RegisterBranch("RL", func() Branch { return &baseBranch{name: "RL"} })

	// Open-Question stubs: byte layout is speculative and intentionally
	// out of scope (spec.md §9). They refuse the build rather than guess.
	RegisterBranch("SFX", func() Branch { return &unsupportedBranch{baseBranch{name: "SFX"}} })
	RegisterBranch("SCX", func() Branch { return &unsupportedBranch{baseBranch{name: "SCX"}} })
	RegisterBranch("Lead", func() Branch { return &unsupportedBranch{baseBranch{name: "Lead"}} })
}

// unsupportedBranch matches the source's "throw NotSupported" stubs: its
// byte layout is speculative, so it refuses the build immediately rather
// than guess at a field order that might silently corrupt data.
type unsupportedBranch struct{ baseBranch }

func (b *unsupportedBranch) PostDeserializeSummary(pkg *Package, s *Stream, sum *Summary) error {
	return &Error{Kind: UnsupportedVersion, Offset: int64(s.Pos()), Message: "branch " + b.name + " refuses this build", Err: ErrUnsupportedBranch}
}

// hmsBranch (Heroes over Europe / HMS Studio fork) reads one extra int32
// immediately after PackageFlags, ahead of the Name table offset/count
// (spec.md §4.D "Build-specific inserts").
type hmsBranch struct{ baseBranch }

func (b *hmsBranch) PostDeserializeSummary(pkg *Package, s *Stream, sum *Summary) error {
	extra, err := s.ReadU32("hms.extra")
	if err != nil {
		return err
	}
	sum.HMSExtra = extra
	return nil
}

func (b *hmsBranch) PostSerializeSummary(pkg *Package, s *Stream, sum *Summary) error {
	s.WriteU32(sum.HMSExtra)
	return nil
}

// huxleyBranch reads a 0xFEFEFEFE sentinel value in the same slot.
type huxleyBranch struct{ baseBranch }

func (b *huxleyBranch) PostDeserializeSummary(pkg *Package, s *Stream, sum *Summary) error {
	sentinel, err := s.ReadU32("huxley.sentinel")
	if err != nil {
		return err
	}
	if sentinel != 0xFEFEFEFE {
		pkg.reportAnomaly(Diagnostic{
			Kind:    DiagAnomaly,
			Message: "Huxley sentinel mismatch; expected 0xFEFEFEFE",
			Offset:  int64(s.Pos()) - 4,
		})
	}
	return nil
}

func (b *huxleyBranch) PostSerializeSummary(pkg *Package, s *Stream, sum *Summary) error {
	s.WriteU32(0xFEFEFEFE)
	return nil
}

// r6VegasBranch reads an extra cooker-version scalar after the Import
// table is parsed, rather than where the generic sequence places it.
type r6VegasBranch struct{ baseBranch }

func (b *r6VegasBranch) PostDeserializePackage(pkg *Package, s *Stream) error {
	v, err := s.ReadU32("r6vegas.cooker_version")
	if err != nil {
		return err
	}
	pkg.Summary.CookerVersion = v
	return nil
}

func (b *r6VegasBranch) PostSerializePackage(pkg *Package, s *Stream) error {
	s.WriteU32(pkg.Summary.CookerVersion)
	return nil
}

// dcuoBranch retroactively shifts table offsets after the
// AdditionalPackagesToCook list is read: that build writes offsets
// computed before an extra field was spliced in earlier in the header.
// The Name, Export, Import and Depends offsets get a constant correction;
// the ImportExportGUIDs and thumbnail-table offsets are left unchanged.
type dcuoBranch struct{ baseBranch }

// DCUOOffsetShift is the constant correction applied to the Name, Export,
// Import and Depends offsets of DCUO packages.
const DCUOOffsetShift = 4

// PostDeserializePackage runs in finishSummary, after AdditionalPackagesToCook
// (and, on the older short-circuit path, after the heritage table) has been
// read but before package.go seeks to any of these offsets to read the
// tables themselves — the correction must land here, not in
// PostDeserializeSummary, which fires before the offsets exist at all.
func (b *dcuoBranch) PostDeserializePackage(pkg *Package, s *Stream) error {
	sum := pkg.Summary
	sum.NameOffset += DCUOOffsetShift
	sum.ExportOffset += DCUOOffsetShift
	sum.ImportOffset += DCUOOffsetShift
	sum.DependsOffset += DCUOOffsetShift
	return nil
}

// teraBranch reproduces Tera's NameCount override: when the last generation
// entry's NameCount differs from Summary.NameCount, the difference is
// reported as an anomaly and Summary.NameCount takes the generation's value
// before the Name table is read. Why Tera needs this is unexplained.
type teraBranch struct{ baseBranch }

func (b *teraBranch) PostDeserializePackage(pkg *Package, s *Stream) error {
	sum := pkg.Summary
	if n := len(sum.Generations); n > 0 {
		last := sum.Generations[n-1]
		if last.NameCount != sum.NameCount {
			pkg.reportAnomaly(Diagnostic{
				Kind:    DiagAnomaly,
				Message: AnoNameCountMismatch,
				Offset:  -1,
			})
			sum.NameCount = last.NameCount
		}
	}
	return nil
}
