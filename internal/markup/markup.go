// Package markup reduces lightly marked-up task text to plain text for the panel.
//
// Only a trivial subset of Markdown is understood:
//   - `**bold**`, `__bold__`, `~~strike~~`
//   - `*italic*`, `_italic_`, `~strike~`, "`code`"
//   - `[link](https://example.com)` and `![image](https://example.com/a.png)`
//   - a single leading `# ` header marker
//
// Everything else passes through unchanged.
package markup

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "..."

// Strip returns the plain text form of src, at most maxLen characters long.
//
// Length is measured in grapheme clusters so multi-byte text is never cut
// inside a character. Truncated output ends in "...".
func Strip(src string, maxLen int) string {
	if src == "" || maxLen <= 0 {
		return ""
	}
	src = strings.TrimPrefix(src, "# ")

	var b strings.Builder
	strip(&b, []rune(src))
	return truncate(b.String(), maxLen)
}

func strip(b *strings.Builder, src []rune) {
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isDoubled(c) && i+1 < len(src) && src[i+1] == c:
			end := indexPair(src, i+2, c)
			writeRunes(b, src[i+2:end])
			i = end + 2
		case isMarker(c):
			end := indexRune(src, i+1, c)
			writeRunes(b, src[i+1:end])
			i = end + 1
		case c == '!' && i+1 < len(src) && src[i+1] == '[':
			i = link(b, src, i+2)
		case c == '[':
			i = link(b, src, i+1)
		default:
			b.WriteRune(c)
			i++
		}
	}
}

// link writes the text of a link whose label starts at from and returns the
// index just past the link. The url in parentheses is dropped.
func link(b *strings.Builder, src []rune, from int) int {
	end := indexRune(src, from, ']')
	strip(b, src[from:end])

	i := end + 1
	if i < len(src) && src[i] == '(' {
		i = indexRune(src, i+1, ')') + 1
	}
	return i
}

func isDoubled(c rune) bool {
	return c == '*' || c == '_' || c == '~'
}

func isMarker(c rune) bool {
	return isDoubled(c) || c == '`'
}

// indexRune returns the index of c at or after from, or len(src).
func indexRune(src []rune, from int, c rune) int {
	for i := from; i < len(src); i++ {
		if src[i] == c {
			return i
		}
	}
	return len(src)
}

// indexPair returns the index of the first "cc" at or after from, or len(src).
func indexPair(src []rune, from int, c rune) int {
	for i := from; i+1 < len(src); i++ {
		if src[i] == c && src[i+1] == c {
			return i
		}
	}
	return len(src)
}

func writeRunes(b *strings.Builder, rs []rune) {
	for _, r := range rs {
		b.WriteRune(r)
	}
}

func truncate(s string, maxLen int) string {
	if uniseg.GraphemeClusterCount(s) <= maxLen {
		return s
	}
	if maxLen <= len(ellipsis) {
		return firstClusters(s, maxLen)
	}
	return firstClusters(s, maxLen-len(ellipsis)) + ellipsis
}

func firstClusters(s string, n int) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String()
}
