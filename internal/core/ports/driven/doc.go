// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialStore: At-rest persistence of OAuth tokens
//   - OAuthExchanger: Authorization-code and refresh-token grants
//   - CodeFlow: Obtaining an authorization code from the user
//   - TokenProvider: Valid access tokens for API clients
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
