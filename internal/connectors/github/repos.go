package github

import (
	"time"

	gh "github.com/google/go-github/v80/github"
)

// RepoSummary is the printable subset of a repository.
type RepoSummary struct {
	FullName    string
	Description string
	Private     bool
	Stars       int
	Language    string
	UpdatedAt   time.Time
}

// SummariseRepo converts a repository to a summary.
func SummariseRepo(r *gh.Repository) RepoSummary {
	s := RepoSummary{
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Private:     r.GetPrivate(),
		Stars:       r.GetStargazersCount(),
		Language:    r.GetLanguage(),
	}
	if ts := r.GetUpdatedAt(); !ts.IsZero() {
		s.UpdatedAt = ts.Time
	}
	return s
}

// IssueSummary is the printable subset of an issue.
type IssueSummary struct {
	Number   int
	Title    string
	State    string
	Author   string
	Comments int
}

// SummariseIssue converts an issue to a summary.
func SummariseIssue(i *gh.Issue) IssueSummary {
	return IssueSummary{
		Number:   i.GetNumber(),
		Title:    i.GetTitle(),
		State:    i.GetState(),
		Author:   i.GetUser().GetLogin(),
		Comments: i.GetComments(),
	}
}
