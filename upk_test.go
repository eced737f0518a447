// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestDetectPlatformFromFolder(t *testing.T) {
	cases := map[string]Platform{
		"CookedPC":        PlatformPC,
		"CookedPCServer":  PlatformPC,
		"CookedXenon":     PlatformConsole,
		"CookedIPhone":    PlatformConsole,
		"Unrecognized":    PlatformUndetermined,
	}
	for folder, want := range cases {
		if got := DetectPlatformFromFolder(folder); got != want {
			t.Errorf("DetectPlatformFromFolder(%q) = %v, want %v", folder, got, want)
		}
	}
}
