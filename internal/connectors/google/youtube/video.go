package youtube

import (
	"time"

	"google.golang.org/api/youtube/v3"
)

// VideoSummary is the printable subset of a YouTube video.
type VideoSummary struct {
	ID        string
	Title     string
	Channel   string
	Duration  string
	Published time.Time
}

// Summarise converts a YouTube video to a summary.
func Summarise(v *youtube.Video) VideoSummary {
	s := VideoSummary{ID: v.Id}

	if v.Snippet != nil {
		s.Title = v.Snippet.Title
		s.Channel = v.Snippet.ChannelTitle
		if v.Snippet.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
				s.Published = t
			}
		}
	}
	if v.ContentDetails != nil {
		s.Duration = v.ContentDetails.Duration
	}

	return s
}
