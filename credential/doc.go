// Package credential provides durable persistence for the LinkShield client's
// credential record: the (token, principal) pair that survives process restarts.
//
// # Store implementations
//
//   - [MemoryStore] — in-process map; used in tests and as the stand-in when no
//     storage substrate is available.
//   - [FileStore] — JSON file with 0600 permissions, the default for the CLI.
//   - [RedisStore] — two Redis keys written and deleted transactionally; lets
//     several client processes share one credential the way browser tabs share
//     localStorage.
//
// # Record semantics
//
// A record is present only when both token and principal are non-empty. Stores
// never enforce this themselves; [Record.Present] is the check, and callers
// treat partial records as absent.
//
// # Architecture boundaries
//
// This package owns storage only. It does NOT decide what a valid session is,
// inspect token contents, or talk to the LinkShield backend — those
// responsibilities belong to the root package's Client.
//
// # What this package must NOT do
//
//   - Import the root package (no upward imports).
//   - Interpret or validate token contents.
//   - Swallow storage errors; callers decide whether absence-on-error applies.
package credential
