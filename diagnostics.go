// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import "fmt"

// Anomalies reported for well-formed-but-suspicious Summary/table fields,
// in the spirit of the teacher's anomaly.go string constants.
const (
	AnoReservedFieldSet          = "a reserved field that must be zero is set"
	AnoHeaderSizeTooSmall        = "header size is smaller than the furthest table offset"
	AnoGenerationsEmptyOnSave    = "generations list was empty; a single entry was synthesized"
	AnoLocalizationIDWithoutGTD  = "LocalizationId present without GatherableTextData support"
	AnoNameCountMismatch         = "last generation's NameCount does not match the Summary's NameCount"
)

// DiagnosticKind classifies a non-fatal Diagnostic.
type DiagnosticKind int

// Diagnostic kinds.
const (
	DiagAnomaly DiagnosticKind = iota
	DiagTableDropped
	DiagCompressed
)

// Diagnostic is one entry on the write-only diagnostics channel described
// in spec.md §6: non-fatal errors are reported without aborting the load.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Offset  int64
}

func (d Diagnostic) String() string {
	if d.Offset >= 0 {
		return fmt.Sprintf("%s (offset %d)", d.Message, d.Offset)
	}
	return d.Message
}

// DiagnosticSink receives Diagnostics. The façade also keeps a flattened
// []string in Package.Anomalies for callers that just want to print them,
// matching the teacher's pe.Anomalies convention.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// sliceSink is the default DiagnosticSink: it just appends.
type sliceSink struct {
	entries []Diagnostic
}

func (s *sliceSink) Report(d Diagnostic) {
	s.entries = append(s.entries, d)
}
