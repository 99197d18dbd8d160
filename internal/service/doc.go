// Package service coordinates an introspection run with the collaborators
// the engine deliberately does not own.
//
// # Services
//
// IntrospectionService runs the engine against an introspect.Database,
// serializes results through the codec package and persists them to an
// artifact.Store. Loading a persisted result goes through the same codec so
// results written by a newer format version are rejected.
//
// # Event System
//
// Engine progress is republished on an EventBus. Subscribers receive
// run lifecycle events (introspection_started, collection_sampled,
// references_verified, introspection_completed) and can log or display them.
// Publishing never blocks; a slow subscriber misses events.
package service
