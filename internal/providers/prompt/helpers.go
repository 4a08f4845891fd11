package prompt

import (
	"strings"

	"vfxprompt/internal/enforce"
)

const (
	staticProviderName = "static"
	localProviderName  = "local"
	noneProviderName   = "none"
)

// NoCategoriesMessage is returned when nothing is left to enhance.
const NoCategoriesMessage = "No enhancement categories selected"

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

// fitWords pads text with cycled padding words up to min and truncates it
// to max words.
func fitWords(text, padding string, min, max int) (string, string) {
	words := strings.Fields(text)
	switch {
	case len(words) > max && max > 0:
		return strings.Join(words[:max], " "), "truncated"
	case len(words) < min:
		pad := strings.Fields(padding)
		if len(pad) == 0 {
			return text, ""
		}
		for i := 0; len(words) < min; i++ {
			words = append(words, pad[i%len(pad)])
		}
		return strings.Join(words, " "), "padded"
	}
	return text, ""
}

func fallbackMetadata(reason string) map[string]string {
	return map[string]string{"fallback_reason": reason}
}

func wordCount(s string) int { return enforce.WordCount(s) }
