// Package core provides shared low-level abstractions for the devflake CLI:
// a context-aware filesystem interface with OS-backed and mock implementations,
// permission constants, and the atomic write helper used by the generator.
package core
