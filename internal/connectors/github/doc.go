// Package github provides an authenticated GitHub API connector.
//
// The connector wraps go-github with:
//   - Lazy client construction against the TokenProvider
//   - Dual-strategy rate limiting (proactive throttle + header feedback)
//   - Retry with backoff through the shared invoker
//   - Budget-capped pagination over page-numbered endpoints
//
// # Usage
//
//	inv := services.NewInvoker(policy).WithStatusFunc(github.StatusOf)
//	client := github.NewClient(tokenProvider, inv)
//	repos, err := client.ListRepositories(ctx, 50)
package github
