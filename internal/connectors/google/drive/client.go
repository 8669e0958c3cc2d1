// Package drive lists Google Drive files through an authenticated,
// rate limited, retrying client.
package drive

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

// serverPageMax is the largest page size the Drive files.list endpoint
// accepts.
const serverPageMax = 1000

// listFields limits responses to the fields we actually read.
const listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, webViewLink, trashed)"

// Client wraps the Drive API service with rate limiting and retry.
type Client struct {
	svc *drive.Service
	inv *services.Invoker
	rl  *google.RateLimiter
}

// NewClient creates a Drive client using the provided TokenSource.
func NewClient(ctx context.Context, ts oauth2.TokenSource, inv *services.Invoker) (*Client, error) {
	svc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return NewClientWithService(svc, inv), nil
}

// NewClientWithService creates a client around an existing service.
func NewClientWithService(svc *drive.Service, inv *services.Invoker) *Client {
	return &Client{
		svc: svc,
		inv: inv,
		rl:  google.NewRateLimiter(google.ServiceDrive),
	}
}

// ListFiles returns up to maxResults files matching the Drive query
// (empty query matches everything the user can see).
func (c *Client) ListFiles(ctx context.Context, query string, maxResults int64) ([]*drive.File, error) {
	fetch := func(ctx context.Context, pageToken string, pageSize int64) (services.Page[*drive.File], error) {
		if err := c.rl.Wait(ctx); err != nil {
			return services.Page[*drive.File]{}, err
		}

		resp, err := services.Invoke(ctx, c.inv, func(ctx context.Context) (*drive.FileList, error) {
			call := c.svc.Files.List().
				PageSize(pageSize).
				Fields(listFields).
				Context(ctx)
			if query != "" {
				call = call.Q(query)
			}
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			return call.Do()
		})
		if err != nil {
			return services.Page[*drive.File]{}, fmt.Errorf("list files: %w", err)
		}

		return services.Page[*drive.File]{
			Items:         resp.Files,
			NextPageToken: resp.NextPageToken,
		}, nil
	}

	return services.ListAll(ctx, fetch, maxResults, serverPageMax)
}
