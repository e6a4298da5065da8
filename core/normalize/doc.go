// Package normalize converts TM's fixed-format values into the canonical forms the
// store uses.
//
// Everything here is a pure function. Malformed input coming from TM is treated as
// missing data rather than as a failure: the lenient parsers log through the global
// zap logger and return a null value, and the caller carries on with the record.
//
// # Timestamps
//
// TM timestamps are 14 digits, YYYYMMDDHHMMSS, UTC, with no zone marker. "0" is TM's
// way of saying "no value".
//
//	ts := normalize.ParseFixedTimestamp("20240101120000") // 2024-01-01T12:00:00Z
//	normalize.ParseFixedTimestamp("0")                    // nil
//
// # Identifiers
//
// TM keys freight orders by a 22 character zero-padded identifier; the store keys them by
// the same value with the padding removed. The padded form has its own type so the two
// never meet in a comparison.
//
//	id := normalize.NormalizeOrderIdentifier("0000000000000000000007") // "7"
//	padded := normalize.PadOrderIdentifier(id)                      // PaddedID("000...07")
//
// # Status
//
// DeriveStatus is the only place that knows how a stop-event list maps to Planned,
// In Transit or Delivered.
package normalize
