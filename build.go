// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// Build identifies the (engine, licensee) revision a Summary belongs to.
type Build struct {
	Name                    string
	BranchKey               string
	Generation              string
	OverrideVersion         *int32
	OverrideLicenseeVersion *int32
}

// versionRange is an inclusive [Min,Max] range; Max < 0 means unbounded.
type versionRange struct {
	Min, Max int32
}

func (r versionRange) contains(v int32) bool {
	if v < r.Min {
		return false
	}
	if r.Max >= 0 && v > r.Max {
		return false
	}
	return true
}

// BuildDescriptor is one row of the build registry's declarative table
// (spec.md §4.B). Detection scans the table in declaration order and
// returns the first descriptor whose predicate matches; ties between
// overlapping version/licensee ranges are broken by declaration order,
// which intentionally encodes author-chosen precedence (e.g. UT2004 before
// UT2003 at the shared 128/25 point, spec.md §8 seed scenario 6).
type BuildDescriptor struct {
	Name      string
	Versions  versionRange
	Licensees versionRange
	Platforms []Platform // empty means "any platform"
	BranchKey string
	Generation string

	OverrideVersion         *int32
	OverrideLicenseeVersion *int32
}

func i32p(v int32) *int32 { return &v }

func (d BuildDescriptor) matches(version, licensee int32, platform Platform) bool {
	if !d.Versions.contains(version) {
		return false
	}
	if !d.Licensees.contains(licensee) {
		return false
	}
	if len(d.Platforms) == 0 {
		return true
	}
	for _, p := range d.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// BuildRegistry is the compile-time table of known builds, declaration
// order intentional. UT2004 is declared before UT2003 so that the shared
// version=128/licensee=25 point resolves to UT2004 (spec.md §8 scenario 6).
var BuildRegistry = []BuildDescriptor{
	{
		Name:      "UT2004",
		Versions:  versionRange{128, 128},
		Licensees: versionRange{25, 29},
		BranchKey: "Default",
		Generation: "UE2",
	},
	{
		Name:      "UT2003",
		Versions:  versionRange{123, 128},
		Licensees: versionRange{25, 25},
		BranchKey: "Default",
		Generation: "UE2",
	},
	{
		Name:      "AmericasArmy2",
		Versions:  versionRange{88, 94},
		Licensees: versionRange{32, 47},
		BranchKey: "AA2",
		Generation: "UE2",
	},
	{
		Name:      "DukeNukemForever",
		Versions:  versionRange{668, 668},
		Licensees: versionRange{97, 107},
		BranchKey: "DNF",
		Generation: "UE3",
	},
	{
		Name:      "MassEffect",
		Versions:  versionRange{491, 512},
		Licensees: versionRange{0, 150},
		BranchKey: "SFX",
		Generation: "UE3",
	},
	{
		Name:      "Huxley",
		Versions:  versionRange{402, 402},
		Licensees: versionRange{1, 1},
		BranchKey: "Huxley",
		Generation: "UE3",
	},
	{
		Name:      "HeroesOverEurope",
		Versions:  versionRange{538, 538},
		Licensees: versionRange{0, 0},
		BranchKey: "HMS",
		Generation: "UE3",
	},
	{
		Name:      "RainbowSixVegas",
		Versions:  versionRange{241, 241},
		Licensees: versionRange{0, 11},
		BranchKey: "R6Vegas",
		Generation: "UE3",
	},
	{
		Name:      "Tera",
		Versions:  versionRange{655, 655},
		Licensees: versionRange{0, 0},
		BranchKey: "Tera",
		Generation: "UE3",
	},
	{
		Name:      "DCUniverseOnline",
		Versions:  versionRange{648, 668},
		Licensees: versionRange{0, 0},
		BranchKey: "DCUO",
		Generation: "UE3",
	},
	{
		Name:      "APB",
		Versions:  versionRange{547, 547},
		Licensees: versionRange{0, 0},
		BranchKey: "APB",
		Generation: "UE3",
	},
	{
		Name:      "RoboticStorm",
		Versions:  versionRange{369, 369},
		Licensees: versionRange{0, 0},
		BranchKey: "RSS",
		Generation: "UE3",
	},
	{
		Name:      "RogueLegacy",
		Versions:  versionRange{376, 376},
		Licensees: versionRange{0, 0},
		BranchKey: "RL",
		Generation: "UE3",
	},
	{
		Name:      "ScarfaceLicensee",
		Versions:  versionRange{490, 490},
		Licensees: versionRange{9000, -1},
		BranchKey: "SCX",
		Generation: "UE3",
	},
	{
		Name:      "LeadStudio",
		Versions:  versionRange{576, 576},
		Licensees: versionRange{0, 0},
		BranchKey: "Lead",
		Generation: "UE3",
	},
	{
		Name:      "UE1Default",
		Versions:  versionRange{61, 69},
		Licensees: versionRange{0, 0},
		BranchKey: "Default",
		Generation: "UE1",
	},
	{
		Name:      "UE3Default",
		Versions:  versionRange{400, 900},
		Licensees: versionRange{0, -1},
		BranchKey: "Default",
		Generation: "UE3",
	},
}

// DefaultBuild is returned when nothing in BuildRegistry matches and the
// legacy version was non-negative (so not UE4+).
var DefaultBuild = Build{Name: "Default", BranchKey: "Default", Generation: "Unknown"}

// UE4DefaultBuild is returned for negative legacy versions when no
// descriptor overrides the branch key.
var UE4DefaultBuild = Build{Name: "UE4Default", BranchKey: "UE4", Generation: "UE4"}

// DetectBuild scans BuildRegistry in order and returns the first matching
// descriptor, or a Default/UE4Default fallback (spec.md §4.B). For a UE4+
// header (isUE4) only descriptors whose Generation is "UE4" are considered.
func DetectBuild(version, licenseeVersion int32, isUE4 bool, platform Platform) Build {
	for _, d := range BuildRegistry {
		if isUE4 && d.Generation != "UE4" {
			continue
		}
		if d.matches(version, licenseeVersion, platform) {
			return Build{
				Name:                    d.Name,
				BranchKey:               d.BranchKey,
				Generation:              d.Generation,
				OverrideVersion:         d.OverrideVersion,
				OverrideLicenseeVersion: d.OverrideLicenseeVersion,
			}
		}
	}
	if isUE4 {
		return UE4DefaultBuild
	}
	return DefaultBuild
}
