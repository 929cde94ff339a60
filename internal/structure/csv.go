package structure

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/specdex/specdex/internal/document"
)

// CSVExtractor handles CSV attachments (tdoc lists, change-request tables).
// Rows are batched into table elements so one huge sheet does not become a
// single oversized element.
type CSVExtractor struct{}

const csvBatchSize = 20

func (e *CSVExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return &document.Document{}, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var elements []document.StructureElement
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}

		var rows []string
		rows = append(rows, strings.Join(headers, " | "))
		hasContent := false
		for _, row := range dataRows[i:end] {
			if strings.TrimSpace(strings.Join(row, "")) != "" {
				hasContent = true
			}
			rows = append(rows, strings.Join(row, " | "))
		}
		if !hasContent {
			continue
		}
		elements = append(elements, document.StructureElement{
			Content:      strings.Join(rows, "\n"),
			Type:         document.TypeTable,
			HeadingLevel: -1,
		})
	}

	return &document.Document{Elements: elements}, nil
}
