package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// serverPageMax is the largest per_page value the GitHub REST API
	// accepts.
	serverPageMax = 100
)

// Client wraps the go-github client with rate limiting and retry.
type Client struct {
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	inv           *services.Invoker
	rateLimiter   *RateLimiter
}

// NewClient creates a new GitHub API client with a token provider.
// The underlying go-github client is built lazily on first use so the
// token is only fetched when needed.
func NewClient(tokenProvider driven.TokenProvider, inv *services.Invoker) *Client {
	return &Client{
		tokenProvider: tokenProvider,
		inv:           inv,
		rateLimiter:   NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a GitHub client over a custom
// http.Client. Used in tests and for pre-authenticated transports.
func NewClientWithHTTPClient(httpClient *http.Client, inv *services.Invoker) *Client {
	return &Client{
		gh:          gh.NewClient(httpClient),
		inv:         inv,
		rateLimiter: NewRateLimiter(),
	}
}

// SetBaseURL points the client at a non-default API endpoint.
func (c *Client) SetBaseURL(rawURL string) error {
	if c.gh == nil {
		return fmt.Errorf("github client not initialised")
	}
	client, err := c.gh.WithEnterpriseURLs(rawURL, rawURL)
	if err != nil {
		return fmt.Errorf("set base url: %w", err)
	}
	c.gh = client
	return nil
}

// ensureClient initializes the go-github client if not already done.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.gh != nil {
		return nil
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	c.gh = gh.NewClient(tc)

	return nil
}

// ListRepositories returns up to maxResults repositories the
// authenticated user can access: owned, collaborator, and organization
// member repos, most recently updated first.
func (c *Client) ListRepositories(ctx context.Context, maxResults int64) ([]*gh.Repository, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, pageToken string, pageSize int64) (services.Page[*gh.Repository], error) {
		page, err := pageForToken(pageToken)
		if err != nil {
			return services.Page[*gh.Repository]{}, err
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return services.Page[*gh.Repository]{}, fmt.Errorf("rate limit wait: %w", err)
		}

		opts := &gh.RepositoryListByAuthenticatedUserOptions{
			Visibility:  "all",
			Affiliation: "owner,collaborator,organization_member",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: gh.ListOptions{Page: page, PerPage: int(pageSize)},
		}

		type result struct {
			repos []*gh.Repository
			resp  *gh.Response
		}
		res, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (result, error) {
			repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
			c.updateRateLimitFromResponse(resp)
			return result{repos, resp}, err
		})
		if err != nil {
			return services.Page[*gh.Repository]{}, c.wrapError(err, "list repos")
		}

		return services.Page[*gh.Repository]{
			Items:         res.repos,
			NextPageToken: tokenForPage(res.resp.NextPage),
		}, nil
	}

	return services.ListAll(ctx, fetch, maxResults, serverPageMax)
}

// ListIssues returns up to maxResults open issues for a repository.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, maxResults int64) ([]*gh.Issue, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, pageToken string, pageSize int64) (services.Page[*gh.Issue], error) {
		page, err := pageForToken(pageToken)
		if err != nil {
			return services.Page[*gh.Issue]{}, err
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return services.Page[*gh.Issue]{}, fmt.Errorf("rate limit wait: %w", err)
		}

		opts := &gh.IssueListByRepoOptions{
			State:       "open",
			ListOptions: gh.ListOptions{Page: page, PerPage: int(pageSize)},
		}

		type result struct {
			issues []*gh.Issue
			resp   *gh.Response
		}
		res, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (result, error) {
			issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
			c.updateRateLimitFromResponse(resp)
			return result{issues, resp}, err
		})
		if err != nil {
			return services.Page[*gh.Issue]{}, c.wrapError(err, "list issues")
		}

		return services.Page[*gh.Issue]{
			Items:         res.issues,
			NextPageToken: tokenForPage(res.resp.NextPage),
		}, nil
	}

	return services.ListAll(ctx, fetch, maxResults, serverPageMax)
}

// GetAuthenticatedUser fetches the authenticated user's profile. Also
// serves as a credential validity check.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*gh.User, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	user, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (*gh.User, error) {
		u, resp, err := c.gh.Users.Get(ctx, "")
		c.updateRateLimitFromResponse(resp)
		return u, err
	})
	if err != nil {
		return nil, c.wrapError(err, "get user")
	}
	return user, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts raw go-github errors to our error types. Errors
// the retry layer already classified keep their classification.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if domain.IsPermanent(err) || domain.IsRetriesExhausted(err) || domain.IsDeadlineExceeded(err) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
