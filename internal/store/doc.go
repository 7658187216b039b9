// Package store persists compiled programs in SQLite.
//
// A database file holds one program: its traits, structs, associated
// types, and impls, each as a JSON row whose type and goal fields use
// the canonical term encoding from the ir package. Every row carries a
// domain-separated content hash, and each save records a snapshot with
// a UUIDv7 token and a hash over the whole program, so LoadProgram can
// detect both row-level corruption and drift between the snapshot and
// its rows.
//
// The store is a durability layer only. Clause generation always runs
// against the in-memory decl.Program that LoadProgram materializes;
// nothing queries SQLite on the hot path.
package store
