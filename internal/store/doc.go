// Package store provides SQLite-backed history of compiled InfluxQL queries.
//
// The store holds:
//   - Compiled queries: canonical request JSON, its fingerprint and the
//     rendered statement, unique per (fingerprint, integers_as_float)
//   - Batches: multi-statement queries and their ordered members
//
// All ordering uses the seq column, a logical clock resumed from the
// highest stored value on Open. Wall-clock time is never stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: batch members must reference stored queries
//
// Fingerprints are computed by queryir.Fingerprint over canonical request
// JSON with domain separation.
package store
