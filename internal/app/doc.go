// Package app wires the greeter application for the CLI.
//
// It loads Config from the environment (and an optional .env file), builds
// the container tree from it and exposes the operations commands run
// through the Wire struct.
package app
