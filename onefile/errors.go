package onefile

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the class of a decode failure, per the taxonomy a
// forensic reader needs to tell apart a damaged file from a parser bug.
type Kind int

const (
	// KindBadSignature means the first 16 bytes matched neither known
	// file-type GUID.
	KindBadSignature Kind = iota
	// KindTruncatedInput means a typed read would cross end-of-file.
	KindTruncatedInput
	// KindBadMagic means a FileNodeList fragment header or footer magic
	// did not match.
	KindBadMagic
	// KindReservedBitSet means a FileNode header's reserved bit was
	// non-zero.
	KindReservedBitSet
	// KindUnknownNodeID means a FileNodeID fell outside the known set.
	KindUnknownNodeID
	// KindDepthExceeded means a recursion ceiling was hit.
	KindDepthExceeded
	// KindBadReference means a chunk reference pointed outside the
	// buffer.
	KindBadReference
	// KindCorruptDataStore means a FileDataStoreObject GUID mismatched
	// or its length overran the buffer.
	KindCorruptDataStore
	// KindPropertyStreamExhausted means an ID-family property asked for
	// more CompactIDs than its stream holds.
	KindPropertyStreamExhausted
	// KindCyclicOrDeepList means a FileNodeList fragment chain exceeded
	// the sanity limit.
	KindCyclicOrDeepList
)

func (k Kind) String() string {
	switch k {
	case KindBadSignature:
		return "BadSignature"
	case KindTruncatedInput:
		return "TruncatedInput"
	case KindBadMagic:
		return "BadMagic"
	case KindReservedBitSet:
		return "ReservedBitSet"
	case KindUnknownNodeID:
		return "UnknownNodeId"
	case KindDepthExceeded:
		return "DepthExceeded"
	case KindBadReference:
		return "BadReference"
	case KindCorruptDataStore:
		return "CorruptDataStore"
	case KindPropertyStreamExhausted:
		return "PropertyStreamExhausted"
	case KindCyclicOrDeepList:
		return "CyclicOrDeepList"
	default:
		return "Unknown"
	}
}

// alwaysFatal holds the kinds that abort the whole parse run rather than
// pruning a subtree, regardless of where they occur. Parse additionally
// records every failure of the fixed-header decode as fatal; errors
// returned by the root FileNodeList walk and FileDataStoreObject failures
// are recorded as recoverable diagnostics, not escalated.
var alwaysFatal = map[Kind]bool{
	KindBadSignature: true,
}

// DecodeError is the error type every decode failure in onefile is wrapped
// in. It carries the byte offset the failure was detected at so forensic
// tooling can point at the exact location in the file.
type DecodeError struct {
	Kind   Kind
	Offset int64
	cause  error
}

func newDecodeError(kind Kind, offset int64, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		cause:  errors.Errorf(format, args...),
	}
}

func wrapDecodeError(kind Kind, offset int64, err error, msg string) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		cause:  errors.Wrap(err, msg),
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset 0x%x: %v", e.Kind, e.Offset, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// Fatal reports whether this error should abort the entire parse run
// rather than be recorded as a recoverable diagnostic.
func (e *DecodeError) Fatal() bool { return alwaysFatal[e.Kind] }

// Severity classifies a Diagnostic for reporting. SeverityInfo is a
// SPEC_FULL.md addition: spec.md §7 only distinguishes fatal from
// recoverable, but a forensic report benefits from flagging merely
// notable, structurally-sound deviations too.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityRecoverable
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityRecoverable:
		return "recoverable"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Diagnostic is a recorded decode event (including the fatal one, if any,
// that ended the run): spec.md §7 requires a parse run to return a
// possibly-partial entity tree plus a list of these so damaged inputs
// still yield actionable output.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Offset   int64
	Detail   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s at 0x%x: %s", d.Severity, d.Kind, d.Offset, d.Detail)
}

// diagnostics accumulates Diagnostic values during one parse run.
type diagnostics struct {
	entries []Diagnostic
}

func (d *diagnostics) record(sev Severity, kind Kind, offset int64, format string, args ...interface{}) {
	d.entries = append(d.entries, Diagnostic{
		Kind:     kind,
		Severity: sev,
		Offset:   offset,
		Detail:   fmt.Sprintf(format, args...),
	})
}

func (d *diagnostics) recordErr(sev Severity, offset int64, err *DecodeError) {
	d.entries = append(d.entries, Diagnostic{
		Kind:     err.Kind,
		Severity: sev,
		Offset:   offset,
		Detail:   err.Error(),
	})
}
