package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mdwiki/internal/doctree"
)

// CSVImporter turns a CSV file into a single GFM table. The first record is
// the header row; short rows are padded.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	if len(records) == 0 {
		return tree, nil
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}

	var b strings.Builder
	writeRow(&b, records[0], width)
	b.WriteString("\n|")
	for range width {
		b.WriteString(" --- |")
	}
	for _, rec := range records[1:] {
		b.WriteString("\n")
		writeRow(&b, rec, width)
	}
	tree.Children = []*doctree.DocNode{{Text: b.String()}}
	return tree, nil
}

func writeRow(b *strings.Builder, rec []string, width int) {
	b.WriteString("|")
	for i := range width {
		cell := ""
		if i < len(rec) {
			cell = tableCell(rec[i])
		}
		b.WriteString(" " + cell + " |")
	}
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func tableCell(s string) string {
	return cellReplacer.Replace(strings.TrimSpace(s))
}
