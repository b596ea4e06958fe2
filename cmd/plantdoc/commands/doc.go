// Package commands defines the plantdoc CLI and wires dependencies for subcommands.
//
// Commands
//
//   - diagnose       Submit one or more leaf photos for diagnosis
//   - preview        Print the data URL preview of an image
//   - history        List past diagnoses (all, or --recent)
//   - login          Seal an API token under a passphrase
//   - logout         Remove the stored API token
//   - trial start    Start the free trial
//   - trial status   Show plan, trial and monthly usage
//   - config init    Write the effective configuration to disk
//
// # Implementation
//
// The root command loads configuration, builds the zap logger and the
// dependency graph (stores, diagnosis client, query cache, services) before
// any subcommand runs. Every image goes through its own upload flow, so a
// batch never shares selection state between images.
package commands
