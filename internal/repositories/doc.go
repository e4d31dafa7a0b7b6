// Package repositories implements SQLite persistence for access records.
//
// Key Implementations:
//   - [AccessLogRepository] : inserts and queries [models.AccessRecord] rows
//   - [AccessLogWriter] : asynchronous front for the repository used by the request path
//
// The writer never blocks a request: records go through a bounded buffer drained by one goroutine,
// and records that do not fit are dropped and counted.
package repositories
