// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// Object is a placeholder materialized for every import/export table
// entry the first time it is referenced (spec.md §3 "Object
// (placeholder)"). The package owns all objects; objects hold
// non-owning references to each other via index resolution.
type Object struct {
	Name    string
	Index   PackageIndex
	Package *Package
	Outer   *Object
	Class   *Object
	Super   *Object
	Flags   uint64
	Loaded  bool

	// State is seeded by the class registry's constructor when the
	// placeholder is first resolved (spec.md §4.F). Package.Load has no
	// Deserialize phase, so any further population is up to the caller
	// running an ObjectSerializer. The core never interprets its contents.
	State interface{}
}

// ClassConstructor builds a fresh *Object for a given class name,
// mirroring the teacher's class-registry interface (spec.md §6).
type ClassConstructor func() *Object

// ClassRegistry maps class names to constructors, used by the resolver to
// pick which concrete "kind" a placeholder object is. It is process-wide
// and append-only after the first package load (spec.md §5).
type ClassRegistry struct {
	ctors map[string]ClassConstructor
}

// NewClassRegistry returns an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{ctors: make(map[string]ClassConstructor)}
}

// Register adds or overrides the constructor for className.
func (r *ClassRegistry) Register(className string, ctor ClassConstructor) {
	r.ctors[className] = ctor
}

// Lookup returns the constructor registered for className, if any.
func (r *ClassRegistry) Lookup(className string) (ClassConstructor, bool) {
	ctor, ok := r.ctors[className]
	return ctor, ok
}

// globalClassRegistry is the process-wide registry used when a Package is
// not given one explicitly via LoadOptions.Classes.
var globalClassRegistry = NewClassRegistry()

// RegisterClass registers a class constructor in the global, process-wide
// registry (spec.md §5).
func RegisterClass(className string, ctor ClassConstructor) {
	globalClassRegistry.Register(className, ctor)
}

func unknownObjectCtor() *Object { return &Object{} }
