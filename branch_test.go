// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "testing"

func TestNewBranchFallsBackToDefault(t *testing.T) {
	b := NewBranch("NotARegisteredBranch")
	if b.Name() != "Default" {
		t.Fatalf("Name() = %q, want Default", b.Name())
	}
}

func TestNewBranchUE4(t *testing.T) {
	b := NewBranch("UE4")
	if b.Name() != "UE4" {
		t.Fatalf("Name() = %q, want UE4", b.Name())
	}
}

func TestRegisterBranchOverride(t *testing.T) {
	RegisterBranch("TestBranch", func() Branch { return NewDefaultBranch() })
	b := NewBranch("TestBranch")
	if b == nil {
		t.Fatalf("expected a branch instance")
	}
}

func TestBaseBranchObjectSerializerRegistration(t *testing.T) {
	branch := NewDefaultBranch()
	called := false
	branch.RegisterSerializer("Texture2D", func(obj *Object, s *Stream, pkg *Package, b Branch) error {
		called = true
		return nil
	})
	fn := branch.ObjectSerializer("Texture2D")
	if fn == nil {
		t.Fatalf("expected a registered serializer for Texture2D")
	}
	if err := fn(nil, nil, nil, branch); err != nil {
		t.Fatalf("serializer returned error: %v", err)
	}
	if !called {
		t.Fatalf("serializer was not invoked")
	}
	if branch.ObjectSerializer("Unknown") != nil {
		t.Fatalf("expected nil serializer for unregistered class")
	}
}
