package calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/core/domain"
	"github.com/custodia-labs/bastion-cli/internal/core/services"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	inv := services.NewInvoker(domain.RetryPolicy{
		MaxAttempts:          3,
		BaseDelay:            time.Millisecond,
		AttemptTimeout:       5 * time.Second,
		RetryableStatusCodes: []int{429, 500, 502, 503, 504},
	}).WithStatusFunc(google.StatusOf)

	return NewClientWithService(svc, inv)
}

// TestClient_ListEvents_Paginates tests page consumption and that the
// time window is forwarded.
func TestClient_ListEvents_Paginates(t *testing.T) {
	var timeMin string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timeMin = r.URL.Query().Get("timeMin")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"items":[{"id":"e1","summary":"standup"}],"nextPageToken":"p2"}`)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":"e2","summary":"review"}]}`)
	})

	c := newTestClient(t, handler)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	events, err := c.ListEvents(context.Background(), "primary", from, 10)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].Id)
	assert.Equal(t, "2026-08-01T00:00:00Z", timeMin)
}

// TestClient_ListEvents_DefaultsCalendarID tests the "primary"
// fallback.
func TestClient_ListEvents_DefaultsCalendarID(t *testing.T) {
	var path string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[]}`)
	})

	c := newTestClient(t, handler)
	_, err := c.ListEvents(context.Background(), "", time.Time{}, 5)
	require.NoError(t, err)
	assert.Contains(t, path, "/calendars/primary/events")
}

// TestSummarise tests datetime and all-day start parsing.
func TestSummarise(t *testing.T) {
	timed := Summarise(&calendar.Event{
		Id:      "e1",
		Summary: "standup",
		Start:   &calendar.EventDateTime{DateTime: "2026-08-30T09:00:00Z"},
		End:     &calendar.EventDateTime{DateTime: "2026-08-30T09:15:00Z"},
	})
	assert.False(t, timed.AllDay)
	assert.Equal(t, 9, timed.Start.UTC().Hour())
	assert.Equal(t, 15, timed.End.UTC().Minute())

	allDay := Summarise(&calendar.Event{
		Id:    "e2",
		Start: &calendar.EventDateTime{Date: "2026-09-01"},
	})
	assert.True(t, allDay.AllDay)
	assert.Equal(t, time.September, allDay.Start.Month())

	empty := Summarise(&calendar.Event{Id: "e3"})
	assert.True(t, empty.Start.IsZero())
}
