package pagedef

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug başlıktan URL güvenli slug üretir: küçük harf, aksanlar atılır,
// [a-z0-9] dışındaki her dizi tek tireye iner, baş/son tireler kırpılır.
// Zaten slug olan girdi aynen döner.
func GenerateSlug(title string) string {
	lower := strings.ToLower(title)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lower)
	if err != nil {
		stripped = lower
	}
	return strings.Trim(nonSlugRun.ReplaceAllString(stripped, "-"), "-")
}
