package labels

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when the requested locale is not served.
const DefaultLocale = "en"

var (
	supportedLocales = []language.Tag{language.English, language.Spanish}
	localeMatcher    = language.NewMatcher(supportedLocales)
)

// ResolveLocale reduces a BCP-47 or POSIX locale to a served language code.
func ResolveLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexAny(raw, ".@"); idx >= 0 {
		raw = raw[:idx]
	}
	primary, _, _ := strings.Cut(strings.ReplaceAll(raw, "_", "-"), "-")
	if primary == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(primary)
	if err != nil {
		return DefaultLocale
	}
	_, idx, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return DefaultLocale
	}
	base, _ := supportedLocales[idx].Base()
	return base.String()
}
