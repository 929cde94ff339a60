package structure

import (
	"fmt"
	"io"
	"strings"

	"github.com/specdex/specdex/internal/document"
	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML contribution cover pages and exports.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	state := headingState{}
	var elements []document.StructureElement

	appendContent := func(content string, typ document.StructureType) {
		if content == "" {
			return
		}
		clause := ""
		if typ != document.TypeTable {
			clause = ClauseNumber(content)
		}
		elements = append(elements, document.StructureElement{
			Content:        content,
			Type:           typ,
			HeadingLevel:   -1,
			ClauseNumber:   clause,
			ParentHeadings: state.parents(maxHeadingLevel + 1),
		})
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := htmlHeadingLevel(n.Data); level > 0 {
				text := textContent(n)
				if text != "" {
					state.set(level, text)
					elements = append(elements, document.StructureElement{
						Content:        text,
						Type:           document.HeadingType(level),
						HeadingLevel:   level,
						ClauseNumber:   ClauseNumber(text),
						ParentHeadings: state.parents(level),
					})
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "table":
				appendContent(htmlTableText(n), document.TypeTable)
				return
			case "li":
				appendContent(textContent(n), document.TypeListItem)
				return
			case "p", "blockquote":
				appendContent(textContent(n), document.TypeParagraph)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findNode(root, "body"); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	title := ""
	if t := findNode(root, "title"); t != nil {
		title = textContent(t)
	}
	if title == "" {
		title = titleFromElements(elements)
	}

	return &document.Document{Title: title, Elements: elements}, nil
}

func htmlHeadingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// htmlTableText serializes a table row per line, cells joined with " | ".
func htmlTableText(table *html.Node) string {
	var rows []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			if strings.TrimSpace(strings.Join(cells, "")) != "" {
				rows = append(rows, strings.Join(cells, " | "))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(table)
	return strings.Join(rows, "\n")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}
