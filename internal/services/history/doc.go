// Package history reads diagnosis history through the query cache so lists
// are only refetched after a new diagnosis marked them stale.
package history
