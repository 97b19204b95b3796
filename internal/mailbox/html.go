package mailbox

import (
	"html"
	"regexp"
	"strings"
)

var (
	reStyle    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reScript   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reBlock    = regexp.MustCompile(`(?i)</(p|div|tr|li|h[1-6])>`)
	reBr       = regexp.MustCompile(`(?i)<br\s*/?>`)
	reTags     = regexp.MustCompile(`<[^>]+>`)
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// htmlToText converts HTML to plain text by stripping tags and decoding
// entities. Good enough for body previews; not a renderer.
func htmlToText(htmlContent string) string {
	text := reStyle.ReplaceAllString(htmlContent, "")
	text = reScript.ReplaceAllString(text, "")
	text = reBlock.ReplaceAllString(text, "\n")
	text = reBr.ReplaceAllString(text, "\n")
	text = reTags.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
