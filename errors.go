// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a load/save failure per spec.md §7.
type ErrorKind int

// Error kinds.
const (
	// BadSignature: the first four bytes match neither the little-endian
	// nor the byte-swapped package tag. Fatal.
	BadSignature ErrorKind = iota

	// UnsupportedVersion: legacy version < -7, or a branch explicitly
	// refuses this build. Fatal.
	UnsupportedVersion

	// FormatError: a table offset lands past EOF, a count is negative, or
	// a string length overflows the stream. Fatal.
	FormatError

	// TableRecoverable: an ancillary table (Depends, Thumbnails,
	// ImportExportGUIDs, TextureAllocations) failed to parse. Logged and
	// dropped; the load continues.
	TableRecoverable

	// ObjectDeserializeError: raised by an external object serializer.
	ObjectDeserializeError
)

func (k ErrorKind) String() string {
	switch k {
	case BadSignature:
		return "BadSignature"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case FormatError:
		return "FormatError"
	case TableRecoverable:
		return "TableRecoverable"
	case ObjectDeserializeError:
		return "ObjectDeserializeError"
	default:
		return "Unknown"
	}
}

// Error is the typed error upk returns for load/save failures. Offset is
// the byte position at which the inconsistency was first observed, or -1
// when not applicable.
type Error struct {
	Kind    ErrorKind
	Offset  int64
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("upk: %s at offset %d: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("upk: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, offset int64, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Sentinel errors referenced directly by callers that want to compare with
// errors.Is rather than inspect an *Error's Kind.
var (
	// ErrBadSignature is returned when neither package magic number matches.
	ErrBadSignature = errors.New("upk: signature tag matches neither package magic")

	// ErrUnsupportedVersion is returned for legacy version < -7.
	ErrUnsupportedVersion = errors.New("upk: legacy version below -7 is not a supported UE4/UE5 header")

	// ErrUnsupportedBranch is returned by branches whose byte layout is
	// speculative and intentionally out of scope (spec.md §9 Open Questions).
	ErrUnsupportedBranch = errors.New("upk: branch does not support this build; layout unknown")

	// ErrOutOfRange is returned when a stream read would cross EOF.
	ErrOutOfRange = errors.New("upk: read crosses end of stream")

	// ErrCompressed describes a package whose Summary reports non-zero
	// compression flags: block decompression is an external collaborator
	// (spec.md §1 Out of scope item c). Load does not return it; it sets
	// Package.Compressed and reports a DiagCompressed diagnostic instead.
	ErrCompressed = errors.New("upk: package is compressed; external decoder required")

	// ErrCyclicOuterChain is returned by the resolver when an outer chain
	// fails to terminate at index 0 within a bounded number of hops.
	ErrCyclicOuterChain = errors.New("upk: outer chain did not terminate")
)

// ObjectDeserializeErrors aggregates per-export deserialization failures
// raised by external object serializers (spec.md §7). Package.Load does
// not run object serializers and never returns this type.
type ObjectDeserializeErrors struct {
	Failures []ExportDeserializeFailure
}

// ExportDeserializeFailure names the export index and underlying error for
// one failed object deserialization.
type ExportDeserializeFailure struct {
	ExportIndex int32
	Err         error
}

func (e *ObjectDeserializeErrors) Error() string {
	return fmt.Sprintf("upk: %d export(s) failed to deserialize", len(e.Failures))
}

func (e *ObjectDeserializeErrors) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
