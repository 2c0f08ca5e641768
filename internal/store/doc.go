// Package store defines the persistence interfaces and sentinel errors
// for the application. Implementations (see internal/platform/jsonfile)
// are the sole authority for reading and writing entities and enforce
// tenant scoping and uniqueness invariants at the data-access boundary.
package store
