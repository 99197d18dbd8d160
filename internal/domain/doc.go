// Package domain defines the types shared by the introspection engine and
// its collaborators.
//
// # Profiles
//
// NodeProfile is the mutable statistical record of one position in a
// collection's documents: a histogram of observed type tags, lazily grown
// object children and array element, and the reference candidacy state with
// its bounded sample set. ModelProfile pairs a collection name with its root
// profile.
//
// # Definitions
//
// NodeDefinition, ModelDefinition and IntrospectionResult are the finalized,
// serializable output. They carry json and yaml tags and are versioned by
// FormatVersion.
//
// # Scalars
//
// Stores classify their own driver values (object ids, binary payloads,
// dates) through ScalarClassifier, so the engine never depends on a driver.
// CanonicalKey gives every scalar a stable string form for comparisons.
package domain
