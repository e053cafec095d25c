package yamlutil

import "strings"

const frontMatterDelimiter = "---"

// SplitFrontMatter separates a leading YAML front matter block from the
// document body. The block must start on the first line with "---" and end
// with the next "---" line. Documents without front matter come back with nil
// metadata and the body unchanged.
func SplitFrontMatter(content string) (frontMatter []byte, body string) {
	rest, ok := strings.CutPrefix(content, frontMatterDelimiter+"\n")
	if !ok {
		return nil, content
	}

	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end < 0 {
		return nil, content
	}

	meta := rest[:end]
	body = rest[end+len("\n"+frontMatterDelimiter):]
	body = strings.TrimPrefix(body, "\n")
	if meta == "" {
		return nil, body
	}
	return []byte(meta), body
}
