package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainTextKeepsPunctuation(t *testing.T) {
	assert.Equal(t, `Tom & Jerry's "Launch"`, PlainText(`Tom & Jerry's "Launch"`))
	assert.Equal(t, "Hello world", PlainText(`<b>Hello</b> <script>alert(1)</script>world`))
	assert.Equal(t, "a < b", PlainText("a &lt; b"))
}

func TestRichTextStripsScripts(t *testing.T) {
	out := RichText(`<p>Hi <a href="https://x.test">x</a></p><script>alert(1)</script>`)
	assert.Contains(t, out, `<a href="https://x.test"`)
	assert.NotContains(t, out, "script")
}
