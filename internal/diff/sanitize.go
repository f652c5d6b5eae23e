package diff

import "strings"

// SanitizeLine turns raw line bytes into display text: invalid UTF-8
// sequences become the replacement character, and one trailing "\n" or
// "\r\n" is stripped. Interior carriage returns are preserved.
func SanitizeLine(content []byte) string {
	text := strings.ToValidUTF8(string(content), "�")
	if strings.HasSuffix(text, "\n") {
		text = text[:len(text)-1]
		if strings.HasSuffix(text, "\r") {
			text = text[:len(text)-1]
		}
	}
	return text
}
