package provider

import (
	"regexp"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```(?:\\w+)?\\n(.*?)```")
	// Models sometimes skip the fence and announce the code instead.
	codeIntro = regexp.MustCompile(`(?is)(?:fixed code|here.*?):\s*\n(.*)`)
)

// ExtractCode pulls the code out of a model response. It prefers the
// first fenced block, then text after a "Fixed code:" style intro, and
// finally the raw response unless it reads like prose. Returns "" when
// nothing code-like is found.
func ExtractCode(output string) string {
	if m := fencedBlock.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := codeIntro.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1])
	}

	stripped := strings.TrimSpace(output)
	if stripped == "" {
		return ""
	}
	for _, prefix := range []string{"I ", "The ", "This ", "Here"} {
		if strings.HasPrefix(stripped, prefix) {
			return ""
		}
	}
	return stripped
}
