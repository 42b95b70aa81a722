package downloader

import (
	"errors"
	"strings"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "https kept", input: "https://www.youtube.com/watch?v=abc", want: "https://www.youtube.com/watch?v=abc"},
		{name: "http kept", input: "http://example.com/v/1", want: "http://example.com/v/1"},
		{name: "scheme added", input: "youtube.com/watch?v=abc", want: "https://youtube.com/watch?v=abc"},
		{name: "whitespace trimmed", input: "  youtu.be/abc \n", want: "https://youtu.be/abc"},
		{name: "upper case scheme", input: "HTTPS://Example.com/x", want: "HTTPS://Example.com/x"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "no host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("Canonicalize(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalizeAlwaysHasHTTPPrefix(t *testing.T) {
	inputs := []string{
		"example.com",
		"www.youtube.com/watch?v=1",
		"http://a.b",
		"https://c.d/e",
		"  vimeo.com/123  ",
	}

	for _, in := range inputs {
		got, err := Canonicalize(in)
		if err != nil {
			t.Fatalf("Canonicalize(%q) unexpected error: %v", in, err)
		}
		lower := strings.ToLower(got)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			t.Errorf("Canonicalize(%q) = %q, missing http(s) prefix", in, got)
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("Canonicalize(%q) = %q, not trimmed", in, got)
		}
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`My/Video:"Test"`, "My_Video__Test_"},
		{`a\b*c?d<e>f|g`, "a_b_c_d_e_f_g"},
		{"Plain title", "Plain title"},
		{"Ünïcödé ok", "Ünïcödé ok"},
		{"line\nbreak", "linebreak"},
		{"", DefaultTitle},
		{"   ", DefaultTitle},
	}

	for _, tt := range tests {
		if got := SanitizeTitle(tt.input); got != tt.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeTitleReplacesOneForOne(t *testing.T) {
	title := `<<a|b>>\/:*?"`
	got := SanitizeTitle(title)

	if len([]rune(got)) != len([]rune(title)) {
		t.Errorf("SanitizeTitle changed length: %q -> %q", title, got)
	}
	if strings.ContainsAny(got, `\/*?:"<>|`) {
		t.Errorf("SanitizeTitle(%q) = %q still contains forbidden characters", title, got)
	}
}
