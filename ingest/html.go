package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTMLTables extracts every <table> in an HTML document as a
// standardized Table. Header cells come from the first row containing <th>
// elements, or the first row when the table has none. Tables without any
// data rows are skipped.
//
// Government portals publish many bulletins as plain HTML tables; this is
// the ingestion path for those.
func ParseHTMLTables(r io.Reader) ([]*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tables []*Table
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		if t := parseTable(sel); t != nil {
			tables = append(tables, t)
		}
	})
	return tables, nil
}

func parseTable(sel *goquery.Selection) *Table {
	var headers []string
	var rows [][]string

	sel.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		isHeader := tr.Find("th").Length() > 0
		tr.Find("th,td").Each(func(j int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if headers == nil && (isHeader || i == 0) {
			headers = cells
			return
		}
		rows = append(rows, cells)
	})

	if headers == nil || len(rows) == 0 {
		return nil
	}

	t := &Table{Headers: headers, Rows: rows}
	t.Standardize()
	return t
}
