package downloader

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Canonicalize trims rawURL and prepends https:// when it carries no
// http(s) scheme. Empty input, or input without a host, is ErrInvalidInput.
func Canonicalize(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", fmt.Errorf("%w: URL is required", ErrInvalidInput)
	}

	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: URL %q has no host", ErrInvalidInput, rawURL)
	}
	return s, nil
}

// DefaultTitle names downloads whose title is unknown.
const DefaultTitle = "video"

var titleReplacer = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	"*", "_",
	"?", "_",
	":", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeTitle replaces characters that are unsafe in file names with an
// underscore, one for one. Control characters are dropped.
func SanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, titleReplacer.Replace(title))

	if strings.TrimSpace(cleaned) == "" {
		return DefaultTitle
	}
	return cleaned
}
