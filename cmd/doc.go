// Package cmd implements the command-line interface for the aKV article
// store. It provides a hierarchical command structure with operations for
// running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - article: Commands for article operations (list, get, create, etc.)
//   - serve: Commands for starting and configuring the aKV server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See akv -help for a list of all commands.
package cmd
