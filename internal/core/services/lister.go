package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/logger"
)

// Page is one page of a paginated list response.
type Page[T any] struct {
	Items []T
	// NextPageToken is the opaque cursor for the next page.
	// Empty means the server has no more pages.
	NextPageToken string
}

// PageFetcher fetches one page. pageToken is empty for the first page;
// pageSize is the number of items to request, already capped so the
// final page never over-fetches.
type PageFetcher[T any] func(ctx context.Context, pageToken string, pageSize int64) (Page[T], error)

// ListAll drives a paginated list operation to at most maxResults
// items. Pages are requested no larger than min(serverPageMax,
// remaining), since quota-metered APIs charge per page fetched
// regardless of how many items are used. The final page is truncated if
// it overshoots. Each call starts fresh from the first page; there is
// no cross-call state.
func ListAll[T any](ctx context.Context, fetch PageFetcher[T], maxResults, serverPageMax int64) ([]T, error) {
	if maxResults < 1 || serverPageMax < 1 {
		return nil, fmt.Errorf("list: maxResults and serverPageMax must be positive: %w", domain.ErrInvalidInput)
	}

	var items []T
	pageToken := ""
	pages := 0

	for {
		remaining := maxResults - int64(len(items))
		pageSize := serverPageMax
		if remaining < pageSize {
			pageSize = remaining
		}

		page, err := fetch(ctx, pageToken, pageSize)
		if err != nil {
			return nil, err
		}
		pages++

		items = append(items, page.Items...)
		if int64(len(items)) >= maxResults {
			items = items[:maxResults]
			break
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	logger.Debug("listed %d items across %d pages", len(items), pages)
	return items, nil
}
