// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// maxOuterChainHops bounds OuterChain's walk so a malformed package with a
// cyclic Outer chain fails fast instead of looping forever.
const maxOuterChainHops = 1000

// Resolve materializes (or returns the cached) *Object for idx, recursing
// into Outer/Class/Super as needed (spec.md §3 "Object (placeholder)").
// idx.IsNone() resolves to (nil, nil). The placeholder is cached before
// its fields are populated, so a self-referential or cyclic Outer/Class
// chain resolves to the same (possibly still-being-built) Object rather
// than recursing forever.
func (pkg *Package) Resolve(idx PackageIndex) (*Object, error) {
	if idx.IsNone() {
		return nil, nil
	}
	if obj, ok := pkg.objects[idx]; ok {
		return obj, nil
	}

	obj := &Object{Index: idx, Package: pkg}
	pkg.objects[idx] = obj

	if idx.IsImport() {
		if err := pkg.resolveImport(obj, idx); err != nil {
			return nil, err
		}
	} else {
		if err := pkg.resolveExport(obj, idx); err != nil {
			return nil, err
		}
	}

	return obj, nil
}

func (pkg *Package) resolveImport(obj *Object, idx PackageIndex) error {
	i := idx.ImportIndex()
	if i < 0 || i >= len(pkg.Imports) {
		return newError(FormatError, -1, "import index %d out of range [0,%d)", i, len(pkg.Imports))
	}
	entry := pkg.Imports[i]
	obj.Name = pkg.NameString(entry.ObjectName)

	outer, err := pkg.Resolve(entry.OuterIndex)
	if err != nil {
		return err
	}
	obj.Outer = outer

	// An import names its class but never indexes an actual Class object,
	// so obj.Class stays nil; the registered (or default UnknownObject)
	// constructor only seeds obj.State.
	className := pkg.NameString(entry.ClassName)
	ctor := classConstructorFor(pkg, className)
	obj.State = ctor().State
	return nil
}

func (pkg *Package) resolveExport(obj *Object, idx PackageIndex) error {
	i := idx.ExportIndex()
	if i < 0 || i >= len(pkg.Exports) {
		return newError(FormatError, -1, "export index %d out of range [0,%d)", i, len(pkg.Exports))
	}
	entry := pkg.Exports[i]
	obj.Name = pkg.NameString(entry.ObjectName)
	obj.Flags = entry.ObjectFlags

	outer, err := pkg.Resolve(entry.OuterIndex)
	if err != nil {
		return err
	}
	obj.Outer = outer

	class, err := pkg.Resolve(entry.ClassIndex)
	if err != nil {
		return err
	}
	obj.Class = class

	super, err := pkg.Resolve(entry.SuperIndex)
	if err != nil {
		return err
	}
	obj.Super = super

	ctor := classConstructorFor(pkg, nearestRegisteredClassName(pkg, obj))
	obj.State = ctor().State
	return nil
}

// nearestRegisteredClassName returns the class name to use when picking a
// constructor for obj: obj.Class's own name if obj has one (ClassIndex != 0),
// or else the nearest ancestor in the Super chain that does have a resolved
// Class, since a ClassIndex of 0 means obj is itself a Class object with no
// further class to name.
func nearestRegisteredClassName(pkg *Package, obj *Object) string {
	if obj.Class != nil {
		return obj.Class.Name
	}
	for cur := obj.Super; cur != nil; cur = cur.Super {
		if cur.Class != nil {
			return cur.Class.Name
		}
	}
	return ""
}

// classConstructorFor looks up className in the package's class registry,
// defaulting to unknownObjectCtor on a miss (spec.md §4.F).
func classConstructorFor(pkg *Package, className string) ClassConstructor {
	if ctor, ok := pkg.opts.classes().Lookup(className); ok {
		return ctor
	}
	return unknownObjectCtor
}

// Objects returns every Object resolved so far, across both tables.
func (pkg *Package) Objects() []*Object {
	objs := make([]*Object, 0, len(pkg.objects))
	for _, o := range pkg.objects {
		objs = append(objs, o)
	}
	return objs
}

// ResolveAll eagerly resolves every Export and Import, so that Objects
// reflects the full object graph instead of whatever Resolve happened to
// touch.
func (pkg *Package) ResolveAll() error {
	for i := range pkg.Exports {
		if _, err := pkg.Resolve(ExportPackageIndex(i)); err != nil {
			return err
		}
	}
	for i := range pkg.Imports {
		if _, err := pkg.Resolve(ImportPackageIndex(i)); err != nil {
			return err
		}
	}
	return nil
}

// OuterChain walks obj.Outer until it reaches nil, returning
// ErrCyclicOuterChain if the chain does not terminate within
// maxOuterChainHops (spec.md §7).
func OuterChain(obj *Object) ([]*Object, error) {
	chain := make([]*Object, 0, 8)
	cur := obj
	for i := 0; cur != nil; i++ {
		if i > maxOuterChainHops {
			return nil, ErrCyclicOuterChain
		}
		chain = append(chain, cur)
		cur = cur.Outer
	}
	return chain, nil
}
