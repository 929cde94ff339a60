package structure

import (
	"bufio"
	"io"
	"strings"

	"github.com/specdex/specdex/internal/document"
)

// TextExtractor handles plain text files: blank-line separated paragraphs,
// no heading structure.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var elements []document.StructureElement
	var current strings.Builder

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		elements = append(elements, document.StructureElement{
			Content:      text,
			Type:         document.TypeParagraph,
			HeadingLevel: -1,
			ClauseNumber: ClauseNumber(text),
		})
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &document.Document{Elements: elements}, nil
}
