package entities

import "strings"

// Cursor wraps a piece of Katnip source text; it has no scanning methods.
// The content-aware scanning is done by this file's package-level functions,
// which track whether a position is inside a double-quoted string so that
// splitting, searching, and replacing can treat quoted regions as opaque.
// A single backslash immediately before a quote escapes it; the quote does
// not toggle string state in that case.
type Cursor struct {
	text string
}

// NewCursor wraps text for content-aware scanning.
func NewCursor(text string) Cursor {
	return Cursor{text: text}
}

// stringRanges returns the inclusive-exclusive byte ranges of text that are
// inside a double-quoted string (quotes themselves included).
func stringRanges(text string) [][2]int {
	var ranges [][2]int
	inString := false
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '"' {
			continue
		}
		if i > 0 && text[i-1] == '\\' {
			continue
		}
		if !inString {
			inString = true
			start = i
		} else {
			inString = false
			ranges = append(ranges, [2]int{start, i + 1})
		}
	}
	if inString {
		ranges = append(ranges, [2]int{start, len(text)})
	}
	return ranges
}

func insideString(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// FindAllOutsideStrings returns the byte offsets of every occurrence of sep
// in text that is not inside a quoted string.
func FindAllOutsideStrings(text, sep string) []int {
	if sep == "" {
		return nil
	}
	ranges := stringRanges(text)
	var offsets []int
	for i := 0; i+len(sep) <= len(text); i++ {
		if text[i:i+len(sep)] != sep {
			continue
		}
		if insideString(ranges, i) {
			continue
		}
		offsets = append(offsets, i)
	}
	return offsets
}

// SplitOutsideStrings splits text on every unquoted occurrence of sep.
func SplitOutsideStrings(text, sep string) []string {
	offsets := FindAllOutsideStrings(text, sep)
	if len(offsets) == 0 {
		return []string{text}
	}
	parts := make([]string, 0, len(offsets)+1)
	prev := 0
	for _, off := range offsets {
		parts = append(parts, text[prev:off])
		prev = off + len(sep)
	}
	parts = append(parts, text[prev:])
	return parts
}

// ReplaceOutsideStrings replaces every unquoted occurrence of old with new.
func ReplaceOutsideStrings(text, old, new string) string {
	offsets := FindAllOutsideStrings(text, old)
	if len(offsets) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, off := range offsets {
		b.WriteString(text[prev:off])
		b.WriteString(new)
		prev = off + len(old)
	}
	b.WriteString(text[prev:])
	return b.String()
}

// FirstOutsideStrings returns the byte offset of the first unquoted occurrence
// of sep, or -1 if none exists.
func FirstOutsideStrings(text, sep string) int {
	offsets := FindAllOutsideStrings(text, sep)
	if len(offsets) == 0 {
		return -1
	}
	return offsets[0]
}

// StripComment splits a line of source into its code and trailing comment,
// where a comment begins at the first unquoted '#' and runs to end of line.
// If no unquoted '#' is present, comment is empty.
func StripComment(line string) (code, comment string) {
	idx := FirstOutsideStrings(line, "#")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

// ExtractedCall is the result of parsing "name(args)trailer" out of a
// statement head.
type ExtractedCall struct {
	Name    string
	Args    string
	Trailer string
}

// ExtractCall splits "name(args...)trailer" respecting nested parens and
// quoted strings, mirroring the reference tokenizer's argument extraction.
func ExtractCall(s string) (ExtractedCall, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return ExtractedCall{}, false
	}
	name := s[:open]
	depth := 0
	inString := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if c == '"' && (i == 0 || s[i-1] != '\\') {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return ExtractedCall{
					Name:    strings.TrimSpace(name),
					Args:    s[open+1 : i],
					Trailer: s[i+1:],
				}, true
			}
		}
	}
	return ExtractedCall{}, false
}

// IsNumericLiteral reports whether value looks like a Katnip numeric
// literal: digits, a single optional leading '-', '.', and the 'e'/'x'/'^'
// characters used by scientific/hex/power notations in the source language.
func IsNumericLiteral(value string) bool {
	if value == "" {
		return false
	}
	const allowed = "-.0123456789xe^"
	hasDigit := false
	for _, r := range value {
		if r >= '0' && r <= '9' {
			hasDigit = true
		}
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return hasDigit
}
