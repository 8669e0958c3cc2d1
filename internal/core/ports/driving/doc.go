// Package driving defines the interfaces through which the outside
// world drives the core (CLI commands in this application).
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Core services implement them; the CLI adapter calls them.
package driving
