// File: internal/services/response/postprocess.go
package response

import (
    "regexp"
    "strings"
)

// FallbackReply replaces provider output that is too short to be useful.
const FallbackReply = "I see. Could you tell me a little more about that?"

// specialTokenPattern matches control tokens some providers leak into
// output, e.g. <|im_end|> or <|endoftext|>.
var specialTokenPattern = regexp.MustCompile(`<\|[^|]*\|>`)

// roleMarkers are prompt-label artifacts occasionally echoed back by the
// model at the start of a reply or a line.
var roleMarkers = []string{
    "[ASSISTANT]", "[USER]", "[SYSTEM]",
    "Assistant:", "User:", "System:", "AI:",
}

// CleanReply normalizes raw provider output into a single displayable
// sentence block: artifacts stripped, newlines collapsed, length bounded.
func (s *Service) CleanReply(raw string) string {
    cleaned := StripArtifacts(raw)
    cleaned = CollapseWhitespace(cleaned)

    if len([]rune(cleaned)) < s.config.MinReplyLen {
        return FallbackReply
    }
    if len([]rune(cleaned)) > s.config.MaxReplyLen {
        cleaned = TruncateAtSentence(cleaned, s.config.MaxReplyLen)
    }
    return EnsureTerminalPunctuation(cleaned)
}

// StripArtifacts removes special tokens and role-marker labels the provider
// may leak into its output.
func StripArtifacts(text string) string {
    text = specialTokenPattern.ReplaceAllString(text, "")
    text = strings.ReplaceAll(text, "<s>", "")
    text = strings.ReplaceAll(text, "</s>", "")

    lines := strings.Split(text, "\n")
    for i, line := range lines {
        trimmed := strings.TrimSpace(line)
        for _, marker := range roleMarkers {
            if len(trimmed) >= len(marker) && strings.EqualFold(trimmed[:len(marker)], marker) {
                trimmed = strings.TrimSpace(trimmed[len(marker):])
                break
            }
        }
        lines[i] = trimmed
    }
    return strings.Join(lines, "\n")
}

// CollapseWhitespace flattens embedded newlines and runs of whitespace into
// single spaces.
func CollapseWhitespace(text string) string {
    return strings.Join(strings.Fields(text), " ")
}

// TruncateAtSentence cuts text to at most maxRunes runes, preferring the
// last sentence-ending punctuation mark within the limit and falling back
// to the last whitespace boundary.
func TruncateAtSentence(text string, maxRunes int) string {
    runes := []rune(text)
    if len(runes) <= maxRunes {
        return text
    }
    window := runes[:maxRunes]

    for i := len(window) - 1; i >= 0; i-- {
        if isSentenceEnd(window[i]) {
            return strings.TrimSpace(string(window[:i+1]))
        }
    }

    // No sentence boundary in range: cut at the last whitespace instead of
    // mid-word.
    for i := len(window) - 1; i >= 0; i-- {
        if window[i] == ' ' {
            return strings.TrimSpace(string(window[:i]))
        }
    }
    return strings.TrimSpace(string(window))
}

// EnsureTerminalPunctuation appends a period when the text does not already
// end with sentence-ending punctuation.
func EnsureTerminalPunctuation(text string) string {
    trimmed := strings.TrimSpace(text)
    if trimmed == "" {
        return trimmed
    }
    runes := []rune(trimmed)
    if isSentenceEnd(runes[len(runes)-1]) {
        return trimmed
    }
    return trimmed + "."
}

func isSentenceEnd(r rune) bool {
    return r == '.' || r == '!' || r == '?'
}
