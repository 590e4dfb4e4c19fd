package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const DefaultSlugMaxLen = 160

var (
	reNonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into a lower-case, hyphen separated slug. Diacritics are
// stripped, letters of other scripts are kept. Empty input gives "".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = norm.NFC.String(string(buf))

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		rs := []rune(s)
		s = strings.Trim(string(rs[:maxLen]), "-")
	}
	return s
}

// EnsureUniqueSlugCI returns baseSlug, or baseSlug-2, baseSlug-3, ... whichever is
// free (case-insensitive) in table.column. scopeFn narrows the check, e.g. to a
// language or to "every row except the one being updated".
func EnsureUniqueSlugCI(
	ctx context.Context,
	db *gorm.DB,
	table string,
	column string,
	baseSlug string,
	scopeFn func(*gorm.DB) *gorm.DB,
	maxLen int,
) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}
	slug := baseSlug

	for i := 0; i < 1000; i++ {
		q := db.WithContext(ctx).Table(table)
		if scopeFn != nil {
			q = scopeFn(q)
		}

		var count int64
		if err := q.Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(slug)).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}

		suffix := fmt.Sprintf("-%d", i+2)
		slug = trimForSuffix(baseSlug, suffix, maxLen) + suffix
	}
	return "", fmt.Errorf("slug %q: no free suffix", baseSlug)
}

// trimForSuffix cuts base so that base+suffix fits into maxLen.
func trimForSuffix(base, suffix string, maxLen int) string {
	need := utf8.RuneCountInString(suffix)
	if need >= maxLen {
		return "x"
	}
	rs := []rune(base)
	if keep := maxLen - need; len(rs) > keep {
		rs = rs[:keep]
	}
	out := strings.Trim(string(rs), "-")
	if out == "" {
		out = "x"
	}
	return out
}
