// Package main runs the in-memory Diagnosis Service used by plantdoc during
// development and tests.
//
// It serves the HTTP API documented in internal/server on the address from
// server.listen (PLANTDOC_LISTEN, or --listen), with the monthly limit, trial
// length and recent-list size taken from the same config file the CLI reads.
// Any bearer token is accepted; unknown tokens start on the free plan and
// tokens passed with --premium are unlimited.
//
// All state is held in memory and lost on process exit. A structured access
// log records method, path, remote, status, bytes, duration and request id for
// each request.
package main
