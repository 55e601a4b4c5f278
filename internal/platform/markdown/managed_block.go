package markdown

import (
	"fmt"
	"strings"
)

// ReplaceBlock rewrites the generated section called name inside body. Text
// outside the markers belongs to the user and is kept; a body without the
// markers gets the block appended.
func ReplaceBlock(body, name, generated string) string {
	startMarker := fmt.Sprintf("<!-- studyplan:%s:start -->", name)
	endMarker := fmt.Sprintf("<!-- studyplan:%s:end -->", name)
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	if start >= 0 && end > start {
		end += len(endMarker)
		return body[:start] + block + body[end:]
	}

	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}
