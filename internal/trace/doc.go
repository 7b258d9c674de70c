// Package trace defines run-trace snapshots and their canonical JSON form.
//
// A snapshot records every step a run executed plus its terminal outcome.
// Golden-file tests and the CLI's --trace output both serialize snapshots
// canonically so byte-for-byte comparison is meaningful across runs and
// platforms.
//
// Canonical form follows RFC 8785: object keys sorted by UTF-16 code units,
// NFC-normalized strings, no HTML escaping, and no floats; trace data is
// integer grid coordinates and degree headings only.
package trace
