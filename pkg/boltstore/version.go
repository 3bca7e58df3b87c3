// Package boltstore exposes module-level metadata.
package boltstore

// Version is the semantic version of the boltstore module.
const Version = "0.1.0"
