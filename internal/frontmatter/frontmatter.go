// Package frontmatter handles the leading title block of node files.
//
// The block is delimited by lines containing exactly "---" with
// "key: value" lines between. The only recognized key is title; other
// keys pass through untouched. Bodies are never parsed as YAML.
package frontmatter

import "strings"

const delimiter = "---"

// split separates content into the raw block lines and the body. A
// file without a well-formed leading block is all body.
func split(content string) (block []string, body string, ok bool) {
	if !strings.HasPrefix(content, delimiter+"\n") {
		return nil, content, false
	}
	rest := content[len(delimiter)+1:]
	lines := strings.SplitAfter(rest, "\n")
	var collected []string
	for i, line := range lines {
		trimmed := strings.TrimSuffix(line, "\n")
		if trimmed == delimiter {
			return collected, strings.Join(lines[i+1:], ""), true
		}
		collected = append(collected, line)
	}
	// Unclosed block: treat the whole file as body.
	return nil, content, false
}

// Body returns the content with any leading block stripped.
func Body(content string) string {
	_, body, _ := split(content)
	return body
}

// Title extracts the title value from the leading block. The second
// return reports whether a title line was present.
func Title(content string) (string, bool) {
	block, _, ok := split(content)
	if !ok {
		return "", false
	}
	for _, line := range block {
		key, value, found := strings.Cut(strings.TrimSuffix(line, "\n"), ":")
		if found && strings.TrimSpace(key) == "title" {
			return unquote(strings.TrimSpace(value)), true
		}
	}
	return "", false
}

// SetTitle returns content with the block's title line replaced, or a
// new block prepended when none exists. Unknown keys and their order
// are preserved.
func SetTitle(content, title string) string {
	block, body, ok := split(content)
	titleLine := "title: " + quote(title) + "\n"
	if !ok {
		return Compose(title, content)
	}
	replaced := false
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	for _, line := range block {
		key, _, found := strings.Cut(strings.TrimSuffix(line, "\n"), ":")
		if found && strings.TrimSpace(key) == "title" && !replaced {
			b.WriteString(titleLine)
			replaced = true
			continue
		}
		b.WriteString(line)
	}
	if !replaced {
		b.WriteString(titleLine)
	}
	b.WriteString(delimiter + "\n")
	b.WriteString(body)
	return b.String()
}

// Compose builds a document from a title and a body.
func Compose(title, body string) string {
	return delimiter + "\n" + "title: " + quote(title) + "\n" + delimiter + "\n" + body
}

// quote wraps values that would otherwise be misread back: leading or
// trailing spaces, a colon, a double quote, or an embedded newline.
func quote(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, ":\"\n") && strings.TrimSpace(s) == s {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unquote reverses quote for values read back from a block.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	escaped := false
	for _, r := range inner {
		if escaped {
			if r == 'n' {
				b.WriteRune('\n')
			} else {
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
