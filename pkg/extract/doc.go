// Package extract is the client for the external SQL-to-graph extraction
// service.
//
// The service receives a SQL script and returns a column-level lineage
// graph as JSON. Extraction happens on the other side of an untrusted
// network boundary: responses are decoded with the lenient [lineage.Ingest]
// reader, transient failures are retried, and successful responses are
// cached by the content hash of the SQL so unchanged scripts never trigger
// a second call.
//
// The [Extractor] interface abstracts the service so tests and offline
// workflows can substitute a [Static] extractor.
package extract
