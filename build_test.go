// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestDetectBuildUT2004PrecedesUT2003(t *testing.T) {
	// version=128/licensee=25 matches both UT2004 and UT2003's ranges;
	// declaration order picks UT2004.
	b := DetectBuild(128, 25, false, PlatformUndetermined)
	if b.Name != "UT2004" {
		t.Fatalf("Name = %q, want UT2004", b.Name)
	}
}

func TestDetectBuildUT2003Only(t *testing.T) {
	b := DetectBuild(125, 25, false, PlatformUndetermined)
	if b.Name != "UT2003" {
		t.Fatalf("Name = %q, want UT2003", b.Name)
	}
}

func TestDetectBuildFallsBackToDefault(t *testing.T) {
	b := DetectBuild(1, 1, false, PlatformUndetermined)
	if b.Name != "Default" || b.BranchKey != "Default" {
		t.Fatalf("got %+v, want the Default fallback", b)
	}
}

func TestDetectBuildFallsBackToUE4Default(t *testing.T) {
	b := DetectBuild(500, 0, true, PlatformUndetermined)
	if b.Name != "UE4Default" || b.BranchKey != "UE4" {
		t.Fatalf("got %+v, want the UE4Default fallback", b)
	}
}

func TestDetectBuildTeraLicenseeBranch(t *testing.T) {
	b := DetectBuild(655, 0, false, PlatformUndetermined)
	if b.BranchKey != "Tera" {
		t.Fatalf("BranchKey = %q, want Tera", b.BranchKey)
	}
}
