// Package mirror provides the HTTP client used to read token state from a
// Hedera mirror node. A mirror node is a read-only indexing service exposing
// REST endpoints over ledger state and history.
//
// The client performs exactly one GET per call and hands back the raw status
// code and body. It never retries and never interprets the payload; callers
// decide what a given status means. Failures to reach the service at all are
// reported as *TransportError so they can be told apart from HTTP statuses.
package mirror
