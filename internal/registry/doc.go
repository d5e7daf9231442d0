// Package registry holds the object templates loaded by the application.
//
// A Registry is an explicit value owned by its caller; there is no global
// state. Templates are loaded from a directory tree in parallel, validated by
// building them once, and published through an immutable snapshot so that
// lookups never block on loading.
//
// Each call to Instantiate builds a fresh object.Template with its own
// random source, so instances can be randomized and placed from different
// goroutines.
package registry
