// Package summarize implements the rule-based extractive summarizer
// applied to note text. It is a deterministic pure transform: it must
// never be given network or database access, which keeps it testable in
// total isolation and safely replaceable.
package summarize

import "strings"

// terminator marks sentence boundaries in both input and output.
const terminator = "."

// ellipsisThreshold is the fraction of the original length below which
// the summary gets an ellipsis marker appended.
const ellipsisThreshold = 0.7

// Summarize produces an extractive summary of the given text.
//
// The text is split into sentence-like segments on terminator boundaries
// and empty segments are discarded. Inputs of two or fewer segments are
// returned unchanged. Otherwise the first two segments are kept, plus the
// last segment when more than five exist; an ellipsis marker is appended
// when the result is under 70% of the original length, and the result
// always ends with a terminator.
func Summarize(text string) string {
	segments := splitSegments(text)

	if len(segments) <= 2 {
		return text
	}

	var picked []string
	if len(segments) <= 5 {
		picked = segments[:2]
	} else {
		picked = append(append([]string{}, segments[:2]...), segments[len(segments)-1])
	}

	summary := strings.Join(picked, terminator+" ")

	if float64(len(summary)) < float64(len(text))*ellipsisThreshold {
		summary += "..."
	}

	summary = strings.TrimSpace(summary)
	if !strings.HasSuffix(summary, terminator) {
		summary += terminator
	}
	return summary
}

// splitSegments splits text on terminators, trims whitespace and drops
// empty segments.
func splitSegments(text string) []string {
	parts := strings.Split(text, terminator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
