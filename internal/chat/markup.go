package chat

import "regexp"

var markupRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "<b>$1</b>"},
	{regexp.MustCompile(`\*(.*?)\*`), "<i>$1</i>"},
	{regexp.MustCompile(`_(.*?)_`), "<u>$1</u>"},
	{regexp.MustCompile(`#r (.*?) r#`), "<span style='color:red;'>$1</span>"},
	{regexp.MustCompile(`#b (.*?) b#`), "<span style='color:blue;'>$1</span>"},
	{regexp.MustCompile(`#g (.*?) g#`), "<span style='color:green;'>$1</span>"},
}

// FormatMarkup expands the chat shorthand (**bold**, *italic*, _underline_
// and #r/#b/#g color blocks) into HTML.
func FormatMarkup(text string) string {
	for _, rule := range markupRules {
		text = rule.pattern.ReplaceAllString(text, rule.replace)
	}
	return text
}
