package markup

import (
	"strings"
	"testing"

	"github.com/rivo/uniseg"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"empty", "", 10, ""},
		{"plain", "buy milk", 100, "buy milk"},
		{"emphasis", "**bold** and _em_", 100, "bold and em"},
		{"doubled underscore", "__bold__ ~~gone~~", 100, "bold gone"},
		{"single markers", "*a* ~b~ `c`", 100, "a b c"},
		{"link", "[see](http://x)", 100, "see"},
		{"image", "![alt *x*](http://img/a.png) tail", 100, "alt x tail"},
		{"link text stripped", "read [**this**](http://x) now", 100, "read this now"},
		{"bracket without url", "[a] b (c)", 100, "a b (c)"},
		{"header", "# Title", 100, "Title"},
		{"header one level", "# # Title", 100, "# Title"},
		{"hash without space", "#tag", 100, "#tag"},
		{"unterminated double", "**open", 100, "open"},
		{"unterminated single", "a `code", 100, "a code"},
		{"unterminated link", "[label", 100, "label"},
		{"unterminated url", "[label](http://x", 100, "label"},
		{"trailing marker", "end*", 100, "end"},
		{"multibyte", "**héllo** wörld ✓", 100, "héllo wörld ✓"},
		{"truncated", "abcdefghij", 8, "abcde..."},
		{"exact fit", "abcdefgh", 8, "abcdefgh"},
		{"truncated multibyte", "äöüäöüäöü", 5, "äö..."},
		{"tiny max", "abcdef", 2, "ab"},
		{"zero max", "abcdef", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in, tt.max); got != tt.want {
				t.Fatalf("Strip(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestStripCombiningMarksStayWhole(t *testing.T) {
	in := strings.Repeat("e\u0301", 5)
	got := Strip(in, 4)
	if want := "e\u0301..."; got != want {
		t.Fatalf("Strip() = %q, want %q", got, want)
	}
}

func TestStripNeverExceedsMax(t *testing.T) {
	inputs := []string{
		"**bold** and _em_ and [a link](http://example.com) with ![img](x)",
		"ünïcödé ✓✓✓ **mixed** `code` ~~strike~~",
		"# heading with trailing *unterminated",
		strings.Repeat("ab", 100),
	}
	for _, in := range inputs {
		for n := 0; n < 40; n++ {
			got := Strip(in, n)
			if l := uniseg.GraphemeClusterCount(got); l > n {
				t.Fatalf("Strip(%q, %d) length = %d", in, n, l)
			}
		}
	}
}
