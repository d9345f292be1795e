package comments

import (
	"regexp"
	"strings"
)

var (
	controlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	scriptRe  = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)
	tagRe     = regexp.MustCompile(`<[^>]*>`)
)

// entities already produced by a previous pass and left untouched.
var entities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#39;"}

// Sanitize reduces user input to escaped plain text. Applying it twice yields the same
// result as applying it once, and the output never contains '<' or '>'.
func Sanitize(input string) string {
	s := controlRe.ReplaceAllString(input, "")
	s = scriptRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	return escape(strings.TrimSpace(s))
}

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if e := entityAt(s[i:]); e != "" {
				b.WriteString(e)
				i += len(e) - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func entityAt(s string) string {
	for _, e := range entities {
		if strings.HasPrefix(s, e) {
			return e
		}
	}
	return ""
}
