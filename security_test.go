// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestVerifySignatureMissingSidecar(t *testing.T) {
	pkg := newPackage(nil)
	sig, err := pkg.VerifySignature("/tmp/does-not-exist-upk-test.u", []byte("body"))
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if sig.Present {
		t.Fatalf("expected no sidecar to be found, got Present=true")
	}
}

func TestSignaturePathAppendsSuffix(t *testing.T) {
	pkg := newPackage(nil)
	got := pkg.SignaturePath("Engine/CookedPC/Core.u")
	want := "Engine/CookedPC/Core.u.sig"
	if got != want {
		t.Fatalf("SignaturePath() = %q, want %q", got, want)
	}
}
