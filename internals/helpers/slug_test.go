package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Launch", "launch"},
		{"  Hello,  World!  ", "hello-world"},
		{"Café déjà vu", "cafe-deja-vu"},
		{"Новости дня", "новости-дня"},
		{"---", ""},
		{"", ""},
		{"Go 1.24 release notes", "go-1-24-release-notes"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in, 0), tc.in)
	}

	long := Slugify(strings.Repeat("abc ", 100), 20)
	assert.LessOrEqual(t, len(long), 20)
	assert.False(t, strings.HasSuffix(long, "-"))
}
