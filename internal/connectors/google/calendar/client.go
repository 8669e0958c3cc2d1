// Package calendar lists Google Calendar events through an
// authenticated, rate limited, retrying client.
package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

// serverPageMax is the largest page size the Calendar events.list
// endpoint accepts.
const serverPageMax = 2500

// Client wraps the Calendar API service with rate limiting and retry.
type Client struct {
	svc *calendar.Service
	inv *services.Invoker
	rl  *google.RateLimiter
}

// NewClient creates a Calendar client using the provided TokenSource.
func NewClient(ctx context.Context, ts oauth2.TokenSource, inv *services.Invoker) (*Client, error) {
	svc, err := google.NewCalendarService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return NewClientWithService(svc, inv), nil
}

// NewClientWithService creates a client around an existing service.
func NewClientWithService(svc *calendar.Service, inv *services.Invoker) *Client {
	return &Client{
		svc: svc,
		inv: inv,
		rl:  google.NewRateLimiter(google.ServiceCalendar),
	}
}

// ListEvents returns up to maxResults upcoming events from the given
// calendar ("primary" for the user's default calendar), starting at
// from. Recurring events are expanded and ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, from time.Time, maxResults int64) ([]*calendar.Event, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	fetch := func(ctx context.Context, pageToken string, pageSize int64) (services.Page[*calendar.Event], error) {
		if err := c.rl.Wait(ctx); err != nil {
			return services.Page[*calendar.Event]{}, err
		}

		resp, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (*calendar.Events, error) {
			call := c.svc.Events.List(calendarID).
				MaxResults(pageSize).
				SingleEvents(true).
				OrderBy("startTime").
				Context(ctx)
			if !from.IsZero() {
				call = call.TimeMin(from.Format(time.RFC3339))
			}
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			return call.Do()
		})
		if err != nil {
			return services.Page[*calendar.Event]{}, fmt.Errorf("list events: %w", err)
		}

		return services.Page[*calendar.Event]{
			Items:         resp.Items,
			NextPageToken: resp.NextPageToken,
		}, nil
	}

	return services.ListAll(ctx, fetch, maxResults, serverPageMax)
}
