// Package commands defines the iocc CLI.
//
// Commands
//
//   - greet      Resolve the greeter App and run it
//   - bindings   Print the bindings of the container, optionally as JSON
//   - serve      Serve greetings over HTTP with session and request scopes
//
// # Implementation
//
// The root command loads Config from the environment and an optional .env
// file, applies flag overrides and leaves it to each subcommand to build
// the container tree in the scope hierarchy it needs.
package commands
