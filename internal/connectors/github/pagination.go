package github

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/bastion-cli/internal/core/domain"
)

// GitHub's REST API paginates by page number rather than opaque
// cursors. These helpers bridge page numbers to the string tokens the
// generic listing layer passes around.

// tokenForPage converts a next-page number to a page token. Page 0
// (go-github's "no next page") becomes the empty token.
func tokenForPage(page int) string {
	if page <= 0 {
		return ""
	}
	return strconv.Itoa(page)
}

// pageForToken converts a page token back to a page number. The empty
// token means the first page.
func pageForToken(token string) (int, error) {
	if token == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(token)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("github: bad page token %q: %w", token, domain.ErrInvalidInput)
	}
	return page, nil
}
