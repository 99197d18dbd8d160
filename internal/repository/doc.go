// Package repository defines the document stores docscope can introspect.
//
// Every store implements introspect.Database: it lists collections, returns
// a bounded sample of documents and looks up primary keys. Stores also
// classify their own driver-specific scalar types so the engine never has
// to know about them.
//
// # Implementations
//
// The sqlite subpackage keeps documents as JSON in a local SQLite file and
// is used for fixtures, tests and offline snapshots.
//
// The postgres subpackage reads the same layout from JSONB tables.
//
// The mongodb subpackage reads a live MongoDB deployment, optionally through
// an SSH tunnel.
//
// # Document layout
//
// The SQL stores share one table keyed by (collection, doc_id), where
// doc_id is the canonical string form of the document's _id. Documents are
// decoded with json.Number so integer keys keep their exact value.
package repository
