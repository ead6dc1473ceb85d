package agent

import (
	"regexp"
	"strings"
)

// minFragmentLen filters out split artifacts like "ok?" or trailing
// punctuation fragments.
const minFragmentLen = 10

var (
	numberedItemPattern = regexp.MustCompile(`\d+[.)]\s+`)
	bulletLinePattern   = regexp.MustCompile(`(?m)^\s*[-•]\s+`)

	// Conjunction cues marking a second question inside one sentence. The
	// rewrites keep the interrogative word with the second fragment.
	conjunctionCues = []struct {
		pattern *regexp.Regexp
		repl    string
	}{
		{regexp.MustCompile(`(?i)\band also\b`), "\x00"},
		{regexp.MustCompile(`(?i)\band what\b`), "\x00what"},
		{regexp.MustCompile(`(?i)\band how\b`), "\x00how"},
		{regexp.MustCompile(`(?i)\.\s+also\b`), ".\x00also"},
	}
)

// Decompose splits a compound message into independent sub-questions. The
// strategies are tried in priority order and the first one that applies wins;
// a message none of them match is returned unchanged as a single question.
func Decompose(message string) []string {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	if strings.Count(message, "?") > 1 {
		return splitOnQuestionMarks(message)
	}
	if numberedItemPattern.MatchString(message) {
		return splitOnPattern(message, numberedItemPattern)
	}
	if bulletLinePattern.MatchString(message) {
		return splitOnPattern(message, bulletLinePattern)
	}
	if marked := markConjunctions(message); strings.Contains(marked, "\x00") {
		return splitMarked(marked, message)
	}
	return []string{message}
}

func markConjunctions(message string) string {
	for _, cue := range conjunctionCues {
		message = cue.pattern.ReplaceAllString(message, cue.repl)
	}
	return message
}

func splitMarked(marked, original string) []string {
	var out []string
	for _, frag := range strings.Split(marked, "\x00") {
		frag = strings.TrimSpace(frag)
		if len(frag) <= minFragmentLen {
			continue
		}
		if !strings.HasSuffix(frag, "?") {
			frag = strings.TrimRight(frag, ". ") + "?"
		}
		out = append(out, frag)
	}
	if len(out) == 0 {
		return []string{original}
	}
	return out
}

func splitOnQuestionMarks(message string) []string {
	var out []string
	for _, frag := range strings.Split(message, "?") {
		frag = strings.TrimSpace(frag)
		if len(frag) > minFragmentLen {
			out = append(out, frag+"?")
		}
	}
	if len(out) == 0 {
		return []string{message}
	}
	return out
}

func splitOnPattern(message string, re *regexp.Regexp) []string {
	var out []string
	for _, frag := range re.Split(message, -1) {
		frag = strings.TrimSpace(frag)
		if len(frag) <= minFragmentLen {
			continue
		}
		if !strings.HasSuffix(frag, "?") {
			frag = strings.TrimRight(frag, ". ") + "?"
		}
		out = append(out, frag)
	}
	if len(out) == 0 {
		return []string{message}
	}
	return out
}
