// Package ingest loads raw executive records from a configured source.
//
// Sources share loose schema handling: the name, title, address, and company
// fields are located by matching column names against common variations, so
// feeds with differing headers load without per-feed mapping. Only a name
// column is mandatory.
package ingest
