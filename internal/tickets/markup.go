package tickets

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTMLComments removes <!-- ... --> blocks from bot-authored markdown and
// keeps every other byte as written. Review bots embed their own hidden
// fingerprints; dropping them leaves the ticket's marker as the only one.
func StripHTMLComments(text string) string {
	if !strings.Contains(text, "<!--") {
		return text
	}

	var result strings.Builder
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.CommentToken {
			continue
		}
		result.Write(z.Raw())
	}

	cleaned := result.String()
	for strings.Contains(cleaned, "\n\n\n") {
		cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(cleaned)
}
