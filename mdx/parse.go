package mdx

import (
	"strings"
)

// Parse reads an MDX (or plain Markdown) file into a Document. YAML
// frontmatter becomes a leading metadata export; top-level import/export
// blocks become ESM nodes; everything else is kept as Markdown blocks.
func Parse(src []byte) (*Document, error) {
	fm, body, had, err := splitFrontmatter(src)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	if had {
		decl, err := frontmatterExport(fm)
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, &Node{
			Kind:    KindESM,
			Value:   PrintStatement(decl),
			Program: &Program{Body: []Statement{decl}},
		})
	}

	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var (
		md      []string
		fence   string
		prevGap = true
	)
	flushMarkdown := func() {
		block := strings.Trim(strings.Join(md, "\n"), "\n")
		if strings.TrimSpace(block) != "" {
			doc.Children = append(doc.Children, &Node{Kind: KindMarkdown, Value: block})
		}
		md = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			md = append(md, line)
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			prevGap = false
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			md = append(md, line)
			prevGap = false
			continue
		}

		if prevGap && isESMStart(line) {
			end := esmBlockEnd(lines, i)
			flushMarkdown()
			block := strings.Join(lines[i:end], "\n")
			doc.Children = append(doc.Children, &Node{
				Kind:    KindESM,
				Value:   block,
				Program: ParseProgram(block),
			})
			i = end - 1
			prevGap = true
			continue
		}

		md = append(md, line)
		prevGap = trimmed == ""
	}
	flushMarkdown()
	return doc, nil
}

func isESMStart(line string) bool {
	return strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ") ||
		strings.HasPrefix(line, "import{") || strings.HasPrefix(line, "export{")
}

// esmBlockEnd returns the index one past the last line of the ESM block
// starting at lines[start]. The block ends at a blank line once brackets
// are balanced.
func esmBlockEnd(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" && depth <= 0 {
			return i
		}
		depth += bracketDelta(lines[i])
	}
	return len(lines)
}

// bracketDelta counts opening minus closing brackets outside string
// literals and line comments.
func bracketDelta(line string) int {
	delta := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return delta
			}
		case '{', '[', '(':
			delta++
		case '}', ']', ')':
			delta--
		}
	}
	return delta
}
