// Package app wires application dependencies for the CLI.
//
// It loads Config from YAML, .env and PLANTDOC_* variables, builds the
// concrete stores, the Diagnosis Service client, the query cache and the
// high-level services, and exposes them via the Wire struct for commands to
// use. App runs batch diagnoses with one upload flow per image.
package app
