// Package textutil wraps github.com/rivo/uniseg for the grapheme-cluster
// operations the session needs when zipping Yi text against its pinyin
// annotation for HtmlRuby formatting. Yi characters are single codepoints,
// but walking by grapheme cluster rather than by rune keeps this correct if
// combining marks are ever introduced.
package textutil

import "github.com/rivo/uniseg"

// Graphemes splits s into its grapheme clusters, in order.
func Graphemes(s string) []string {
	var out []string
	remaining := s
	state := -1
	for len(remaining) > 0 {
		var cluster string
		cluster, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		if cluster == "" {
			break
		}
		out = append(out, cluster)
	}
	return out
}
