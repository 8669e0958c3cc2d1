// Package youtube lists YouTube videos through an authenticated, rate
// limited, retrying client.
package youtube

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/youtube/v3"

	"github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

// serverPageMax is the largest page size the YouTube videos.list
// endpoint accepts.
const serverPageMax = 50

// listParts selects the response parts we read.
var listParts = []string{"snippet", "contentDetails"}

// Client wraps the YouTube Data API service with rate limiting and retry.
type Client struct {
	svc *youtube.Service
	inv *services.Invoker
	rl  *google.RateLimiter
}

// NewClient creates a YouTube client using the provided TokenSource.
func NewClient(ctx context.Context, ts oauth2.TokenSource, inv *services.Invoker) (*Client, error) {
	svc, err := google.NewYouTubeService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return NewClientWithService(svc, inv), nil
}

// NewClientWithService creates a client around an existing service.
func NewClientWithService(svc *youtube.Service, inv *services.Invoker) *Client {
	return &Client{
		svc: svc,
		inv: inv,
		rl:  google.NewRateLimiter(google.ServiceYouTube),
	}
}

// ListLikedVideos returns up to maxResults videos the authenticated
// user has rated "like".
func (c *Client) ListLikedVideos(ctx context.Context, maxResults int64) ([]*youtube.Video, error) {
	fetch := func(ctx context.Context, pageToken string, pageSize int64) (services.Page[*youtube.Video], error) {
		if err := c.rl.Wait(ctx); err != nil {
			return services.Page[*youtube.Video]{}, err
		}

		resp, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (*youtube.VideoListResponse, error) {
			return c.svc.Videos.List(listParts).
				MyRating("like").
				MaxResults(pageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
		})
		if err != nil {
			return services.Page[*youtube.Video]{}, fmt.Errorf("list liked videos: %w", err)
		}

		return services.Page[*youtube.Video]{
			Items:         resp.Items,
			NextPageToken: resp.NextPageToken,
		}, nil
	}

	return services.ListAll(ctx, fetch, maxResults, serverPageMax)
}
