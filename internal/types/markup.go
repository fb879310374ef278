package types

import (
	"html"
	"regexp"
	"strings"
)

var markupTagPattern = regexp.MustCompile(`<[^>]*>?`)

// PlainText projects a message's rich text onto plain text: inline markup
// tags are removed and entities decoded. Every generation request must go
// through this projection; backends never see editor markup.
func PlainText(text string) string {
	stripped := markupTagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// PlainText projects the message body for display and generation context.
func (m Message) PlainText() string {
	return PlainText(m.Text)
}
