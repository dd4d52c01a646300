package normalizer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TextExtractor pulls semantic sub-content out of raw Weibo text. All
// functions are pure: absent input yields empty collections, never an error.

var (
	// Hashtags are delimited by a pair of # markers: #话题#.
	hashtagRe = regexp.MustCompile(`#([^#\s]+)#`)

	// Mentions are @ followed by a run of name characters. Weibo search
	// results lose the anchor markup around mentions, so common particles
	// (的/和/了/...) and punctuation terminate a name.
	mentionRe = regexp.MustCompile(`@([^\s@#:：,，。.!！?？;；、'"()（）\[\]…的了和与及或等]+)`)

	// Links are http(s) substrings up to the next whitespace.
	linkRe = regexp.MustCompile(`https?://[^\s]+`)

	// Emoji arrive as bracketed tokens like [笑cry].
	emojiRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

	markupTagRe  = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// htmlEntities are the four entities that actually show up in search-result
// text. Anything more exotic is left alone.
var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
)

// ExtractHashtags returns hashtag names with the # markers stripped.
func ExtractHashtags(text string) []string {
	return extractGroup(hashtagRe, text)
}

// ExtractMentions returns mentioned names with the @ marker stripped.
func ExtractMentions(text string) []string {
	return extractGroup(mentionRe, text)
}

// ExtractLinks returns all http(s) URLs found in the text.
func ExtractLinks(text string) []string {
	if text == "" {
		return []string{}
	}
	links := linkRe.FindAllString(text, -1)
	if links == nil {
		return []string{}
	}
	return links
}

// ExtractEmojis returns bracketed emoji tokens with the brackets stripped.
func ExtractEmojis(text string) []string {
	return extractGroup(emojiRe, text)
}

// CleanText strips markup tags, decodes the common HTML entities, collapses
// whitespace runs into one space and trims the result. The raw text is left
// untouched by the caller.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	cleaned := markupTagRe.ReplaceAllString(text, "")
	cleaned = htmlEntities.Replace(cleaned)
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// FlattenRichText converts long-text rich HTML into plain text, keeping line
// breaks. Falls back to CleanText when the markup does not parse.
func FlattenRichText(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CleanText(html)
	}
	// goquery Text() will not replace br with newline
	doc.Find("br").AfterHtml("\n")
	return strings.TrimSpace(doc.Text())
}

func extractGroup(re *regexp.Regexp, text string) []string {
	if text == "" {
		return []string{}
	}
	matches := re.FindAllStringSubmatch(text, -1)
	res := make([]string, 0, len(matches))
	for _, m := range matches {
		res = append(res, m[1])
	}
	return res
}
