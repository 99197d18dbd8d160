// Package introspect infers a schema for a schema-less document store.
//
// An Introspector samples every collection of a Database, profiles the
// sampled documents into trees of domain.NodeProfile, narrows the positions
// that could hold references to another collection's _id by type alone,
// confirms those candidates with live id lookups and finally converts the
// profiles into a deterministic domain.IntrospectionResult.
//
// The package never logs and never retries. Any database failure aborts the
// run with a *domain.IOError; option errors are reported as
// *domain.ConfigurationError before the database is touched.
package introspect
