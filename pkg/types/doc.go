// Package types defines the content model of a gwen2d project (categories,
// entities, states and frames), the Store interface used to persist it, and
// the standard errors shared by the editor and its storage backends.
package types
