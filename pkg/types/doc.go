// Package types holds the small shared interfaces that the rest of the
// codebase is written against, most importantly the FS filesystem
// abstraction. Keeping them here avoids import cycles between the engine,
// the inspectors and the test doubles.
package types
