package structure

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/specdex/specdex/internal/document"
)

// DOCXExtractor handles .docx contributions, the primary input format.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "specdex-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	state := headingState{}
	var elements []document.StructureElement

	for _, item := range doc.Document.Body.Items {
		switch node := item.(type) {
		case *docx.Paragraph:
			text := paragraphText(node)
			if text == "" {
				continue
			}
			level := headingLevelForStyle(paragraphStyle(node))
			if level >= 0 {
				state.set(level, text)
				elements = append(elements, document.StructureElement{
					Content:        text,
					Type:           document.HeadingType(level),
					HeadingLevel:   level,
					ClauseNumber:   ClauseNumber(text),
					ParentHeadings: state.parents(level),
				})
				continue
			}
			typ := document.TypeParagraph
			if isListItem(node) {
				typ = document.TypeListItem
			}
			elements = append(elements, document.StructureElement{
				Content:        text,
				Type:           typ,
				HeadingLevel:   -1,
				ClauseNumber:   ClauseNumber(text),
				ParentHeadings: state.parents(maxHeadingLevel + 1),
			})
		case *docx.Table:
			text := tableText(node)
			if text == "" {
				continue
			}
			// Tables read the heading stack but never change it.
			elements = append(elements, document.StructureElement{
				Content:        text,
				Type:           document.TypeTable,
				HeadingLevel:   -1,
				ParentHeadings: state.parents(maxHeadingLevel + 1),
			})
		}
	}

	title := readCoreTitle(tmpPath)
	if title == "" {
		title = titleFromElements(elements)
	}

	return &document.Document{Title: title, Elements: elements}, nil
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// headingLevelForStyle matches Word style names case-insensitively and by
// substring, so localized or suffixed styles like "Heading 2 Char" still
// classify. Returns 0 for Title, 1..6 for headings, -1 otherwise.
func headingLevelForStyle(style string) int {
	if style == "" {
		return -1
	}
	lower := strings.ToLower(style)
	for lvl := 1; lvl <= maxHeadingLevel; lvl++ {
		if strings.Contains(lower, fmt.Sprintf("heading %d", lvl)) ||
			strings.Contains(lower, fmt.Sprintf("heading%d", lvl)) {
			return lvl
		}
	}
	if strings.Contains(lower, "title") {
		return 0
	}
	return -1
}

func isListItem(para *docx.Paragraph) bool {
	return para.Properties != nil && para.Properties.NumProperties != nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// tableText serializes a table as one row per line, cells joined with " | ".
func tableText(tbl *docx.Table) string {
	var rows []string
	hasContent := false
	for _, row := range tbl.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var parts []string
			for _, p := range cell.Paragraphs {
				if t := paragraphText(p); t != "" {
					parts = append(parts, t)
				}
			}
			text := strings.Join(parts, " ")
			if text != "" {
				hasContent = true
			}
			cells = append(cells, text)
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	if !hasContent {
		return ""
	}
	return strings.Join(rows, "\n")
}

// readCoreTitle pulls dc:title out of docProps/core.xml. go-docx does not
// surface core properties, so read them from the container directly.
// Best effort: a missing or malformed part just means no title.
func readCoreTitle(path string) string {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "docProps/core.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		var props struct {
			Title string `xml:"title"`
		}
		err = xml.NewDecoder(rc).Decode(&props)
		rc.Close()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(props.Title)
	}
	return ""
}
