package helper

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicy = bluemonday.StrictPolicy()
	richPolicy  = bluemonday.UGCPolicy()
)

// PlainText drops every tag and returns the text unescaped, ready for JSON.
func PlainText(s string) string {
	return html.UnescapeString(plainPolicy.Sanitize(s))
}

// RichText keeps safe markup (links, lists, emphasis, images).
func RichText(s string) string {
	return richPolicy.Sanitize(s)
}
