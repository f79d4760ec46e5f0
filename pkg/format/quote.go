package format

import (
	"regexp"
	"strings"
)

var safeArgRE = regexp.MustCompile(`^[\w@%+=:,./-]+$`)

// Quote returns s quoted for a POSIX shell. Arguments consisting only of
// safe characters pass through unchanged.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if safeArgRE.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// QuoteArgs quotes every argument that does not start with whitespace,
// leaving deliberately padded arguments untouched so they still expand as
// written.
func QuoteArgs(args ...string) []string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a != "" && (a[0] == ' ' || a[0] == '\t' || a[0] == '\n') {
			quoted[i] = a
			continue
		}
		quoted[i] = Quote(a)
	}
	return quoted
}
