package gmail

import (
	"time"

	"google.golang.org/api/gmail/v1"
)

// MessageSummary is the printable subset of a Gmail message.
type MessageSummary struct {
	ID       string
	ThreadID string
	From     string
	Subject  string
	Snippet  string
	Labels   []string
	Date     time.Time
}

// Summarise converts a Gmail message (metadata format) to a summary.
func Summarise(msg *gmail.Message) MessageSummary {
	s := MessageSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
	}

	if msg.InternalDate > 0 {
		s.Date = time.UnixMilli(msg.InternalDate)
	}
	s.From = headerValue(msg, "From")
	s.Subject = headerValue(msg, "Subject")

	return s
}

// headerValue returns the first matching payload header, or "".
func headerValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// IsSpamOrTrash reports whether the message carries a spam or trash label.
func IsSpamOrTrash(msg *gmail.Message) bool {
	for _, label := range msg.LabelIds {
		if label == "SPAM" || label == "TRASH" {
			return true
		}
	}
	return false
}
