package diff

import "testing"

func TestSanitizeLine(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{"plain line", []byte("hello\n"), "hello"},
		{"crlf line", []byte("hello\r\n"), "hello"},
		{"no trailing newline", []byte("hello"), "hello"},
		{"bare carriage return kept", []byte("hello\r"), "hello\r"},
		{"interior carriage return kept", []byte("a\rb\n"), "a\rb"},
		{"empty", []byte(""), ""},
		{"only newline", []byte("\n"), ""},
		{"invalid utf8 replaced", []byte{'a', 0xff, 'b', '\n'}, "a�b"},
		{"multibyte preserved", []byte("héllo\n"), "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeLine(tt.content); got != tt.want {
				t.Errorf("SanitizeLine(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
