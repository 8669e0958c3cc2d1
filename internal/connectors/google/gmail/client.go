// Package gmail lists and fetches Gmail messages through an authenticated,
// rate limited, retrying client.
package gmail

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

// serverPageMax is the largest page size the Gmail messages.list
// endpoint accepts.
const serverPageMax = 500

// Client wraps the Gmail API service with rate limiting and retry.
type Client struct {
	svc *gmail.Service
	inv *services.Invoker
	rl  *google.RateLimiter
}

// NewClient creates a Gmail client using the provided TokenSource.
func NewClient(ctx context.Context, ts oauth2.TokenSource, inv *services.Invoker) (*Client, error) {
	svc, err := google.NewGmailService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return NewClientWithService(svc, inv), nil
}

// NewClientWithService creates a client around an existing service.
func NewClientWithService(svc *gmail.Service, inv *services.Invoker) *Client {
	return &Client{
		svc: svc,
		inv: inv,
		rl:  google.NewRateLimiter(google.ServiceGmail),
	}
}

// ListMessages returns up to maxResults messages matching the Gmail
// search query (empty query matches everything). Pages are fetched no
// larger than needed; each page fetch is retried on transient failure.
func (c *Client) ListMessages(ctx context.Context, query string, maxResults int64) ([]*gmail.Message, error) {
	fetch := func(ctx context.Context, pageToken string, pageSize int64) (services.Page[*gmail.Message], error) {
		if err := c.rl.Wait(ctx); err != nil {
			return services.Page[*gmail.Message]{}, err
		}

		resp, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (*gmail.ListMessagesResponse, error) {
			call := c.svc.Users.Messages.List("me").MaxResults(pageSize).Context(ctx)
			if query != "" {
				call = call.Q(query)
			}
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			return call.Do()
		})
		if err != nil {
			return services.Page[*gmail.Message]{}, fmt.Errorf("list messages: %w", err)
		}

		return services.Page[*gmail.Message]{
			Items:         resp.Messages,
			NextPageToken: resp.NextPageToken,
		}, nil
	}

	return services.ListAll(ctx, fetch, maxResults, serverPageMax)
}

// GetMessage fetches a single message with metadata headers.
func (c *Client) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	msg, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (*gmail.Message, error) {
		return c.svc.Users.Messages.Get("me", id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return msg, nil
}
