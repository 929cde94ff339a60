package structure

import (
	"bytes"
	"io"
	"strings"

	"github.com/specdex/specdex/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles markdown exports of contributions using goldmark.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	state := headingState{}
	var elements []document.StructureElement

	appendContent := func(content string, typ document.StructureType) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		elements = append(elements, document.StructureElement{
			Content:        content,
			Type:           typ,
			HeadingLevel:   -1,
			ClauseNumber:   ClauseNumber(content),
			ParentHeadings: state.parents(maxHeadingLevel + 1),
		})
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(src)))
			if title == "" {
				continue
			}
			level := node.Level
			if level > maxHeadingLevel {
				level = maxHeadingLevel
			}
			state.set(level, title)
			elements = append(elements, document.StructureElement{
				Content:        title,
				Type:           document.HeadingType(level),
				HeadingLevel:   level,
				ClauseNumber:   ClauseNumber(title),
				ParentHeadings: state.parents(level),
			})
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				appendContent(inlineText(item, src), document.TypeListItem)
			}
		default:
			appendContent(inlineText(n, src), document.TypeParagraph)
		}
	}

	return &document.Document{
		Title:    titleFromElements(elements),
		Elements: elements,
	}, nil
}

// inlineText gets the text content of a goldmark AST node. Blocks that own
// source lines (paragraphs, code blocks) read them directly; container
// blocks recurse into their children.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if part := inlineText(c, src); part != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(part)
		}
	}
	return strings.TrimSpace(buf.String())
}
