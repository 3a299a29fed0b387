// Package textfilter cleans user-authored text before it is stored: HTML is
// stripped and blocklisted words are masked or rejected.
package textfilter

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const Mask = "***"

var blocklist = []string{
	"fuck",
	"fucking",
	"motherfucker",
	"shit",
	"bullshit",
	"bitch",
	"bastard",
	"asshole",
	"dick",
	"cunt",
	"slut",
	"whore",
	"wanker",
	"prick",
}

var (
	abusivePattern = compile(blocklist)
	stripPolicy    = bluemonday.StrictPolicy()

	// only entities that cannot open a tag are decoded; &lt; and &gt; stay
	// escaped so encoded markup never turns back into markup
	plainEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)
)

func compile(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// FilterAbusiveText masks every blocklisted word. Matching is
// case-insensitive and whole-word only.
func FilterAbusiveText(text string) string {
	return abusivePattern.ReplaceAllString(text, Mask)
}

// ContainsAbusiveText reports whether any blocklisted word appears as a
// whole word.
func ContainsAbusiveText(text string) bool {
	return abusivePattern.MatchString(text)
}

// StripHTML removes all markup and returns plain text.
func StripHTML(text string) string {
	return plainEntities.Replace(stripPolicy.Sanitize(text))
}

// Clean is the write-path normalisation for free text: trim, strip markup,
// mask abusive words.
func Clean(text string) string {
	return FilterAbusiveText(strings.TrimSpace(StripHTML(text)))
}
