package digest

import "strings"

// Outcome is the result of checking a computed digest against a
// caller-supplied reference value.
type Outcome struct {
	Computed  string
	Reference string
	Matches   bool
}

// Compare checks computed against reference. Both sides are normalized to
// lowercase, so hex case never matters. Whitespace is preserved: a
// reference with surrounding spaces is a literal mismatch.
func Compare(computed, reference string) Outcome {
	return Outcome{
		Computed:  computed,
		Reference: reference,
		Matches:   strings.ToLower(computed) == strings.ToLower(reference),
	}
}
