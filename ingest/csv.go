// Package ingest parses external dataset files (CSV exports and HTML
// bulletins) into tables, standardizes the crop and state vocabulary they
// use, and converts them into typed rows or retrieval documents.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/corpus"
)

// cropMapping standardizes the crop names government exports use. Lookup is
// by uppercase form; unmapped names pass through unchanged.
var cropMapping = map[string]string{
	"PADDY":     "Rice",
	"JOWAR":     "Sorghum",
	"BAJRA":     "Pearl Millet",
	"MAIZE":     "Maize",
	"RAGI":      "Finger Millet",
	"WHEAT":     "Wheat",
	"BARLEY":    "Barley",
	"GRAM":      "Chickpea",
	"TUR":       "Pigeon Pea",
	"MOONG":     "Green Gram",
	"URAD":      "Black Gram",
	"COTTON":    "Cotton",
	"SUGARCANE": "Sugarcane",
	"JUTE":      "Jute",
	"MESTA":     "Mesta",
}

// stateMapping standardizes the run-together state names in older exports.
var stateMapping = map[string]string{
	"TAMILNADU":     "Tamil Nadu",
	"UTTARPRADESH":  "Uttar Pradesh",
	"WESTBENGAL":    "West Bengal",
	"MADHYAPRADESH": "Madhya Pradesh",
	"ANDHRAPRADESH": "Andhra Pradesh",
}

// StandardizeCrop maps a raw crop name to its standard form.
func StandardizeCrop(name string) string {
	if mapped, ok := cropMapping[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return mapped
	}
	return name
}

// StandardizeState maps a raw state name to its standard form.
func StandardizeState(name string) string {
	if mapped, ok := stateMapping[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return mapped
	}
	return name
}

// Kind classifies a table by its column names.
type Kind int

const (
	KindGeneric Kind = iota
	KindAgricultural
	KindClimate
)

var (
	agriculturalColumns = []string{"crop", "production", "yield", "area", "season", "agriculture"}
	climateColumns      = []string{"rainfall", "temperature", "humidity", "weather", "climate", "monsoon"}
)

// Table is parsed tabular data: ordered headers plus rows of cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Kind reports what the table holds, judged by its column names.
// Agricultural wins when a table matches both keyword sets.
func (t *Table) Kind() Kind {
	if matchesAny(t.Headers, agriculturalColumns) {
		return KindAgricultural
	}
	if matchesAny(t.Headers, climateColumns) {
		return KindClimate
	}
	return KindGeneric
}

func matchesAny(headers, keywords []string) bool {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// Standardize rewrites crop and state cells in place using the standard
// vocabulary. It applies to every column whose name mentions crop or state.
func (t *Table) Standardize() {
	for col, header := range t.Headers {
		lower := strings.ToLower(header)
		isState := strings.Contains(lower, "state")
		isCrop := strings.Contains(lower, "crop")
		if !isState && !isCrop {
			continue
		}
		for _, row := range t.Rows {
			if col >= len(row) {
				continue
			}
			if isState {
				row[col] = StandardizeState(row[col])
			} else {
				row[col] = StandardizeCrop(row[col])
			}
		}
	}
}

// ReadCSV parses CSV data into a standardized table. The first record is
// the header row. Rows may be ragged; short rows are kept as-is.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	t := &Table{Headers: records[0], Rows: records[1:]}
	t.Standardize()
	return t, nil
}

// LoadCSV reads and parses a CSV file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// column resolves a field to its index by normalized header name. Each
// field accepts the exact export header and a short alias.
func (t *Table) column(names ...string) int {
	for i, h := range t.Headers {
		normalized := normalizeHeader(h)
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// numericCell parses a float cell. Missing or malformed values become 0 and
// the row is kept.
func numericCell(row []string, col int) float64 {
	v, err := strconv.ParseFloat(cell(row, col), 64)
	if err != nil {
		return 0
	}
	return v
}

func intCell(row []string, col int) int {
	v, err := strconv.Atoi(cell(row, col))
	if err != nil {
		return 0
	}
	return v
}

// Productions converts an agricultural table into production rows.
func (t *Table) Productions() []agridata.Production {
	state := t.column("state")
	district := t.column("district")
	crop := t.column("crop")
	season := t.column("season")
	year := t.column("year")
	area := t.column("areahectares", "area")
	yield := t.column("yieldtonnesperha", "yield")
	production := t.column("productiontonnes", "production")
	source := t.column("source")
	dataset := t.column("dataset")

	rows := make([]agridata.Production, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, agridata.Production{
			State:            cell(row, state),
			District:         cell(row, district),
			Crop:             cell(row, crop),
			Season:           cell(row, season),
			Year:             intCell(row, year),
			AreaHectares:     numericCell(row, area),
			YieldTonnesPerHa: numericCell(row, yield),
			ProductionTonnes: numericCell(row, production),
			Source:           cell(row, source),
			Dataset:          cell(row, dataset),
		})
	}
	return rows
}

// Climates converts a climate table into climate rows.
func (t *Table) Climates() []agridata.Climate {
	state := t.column("state")
	district := t.column("district")
	year := t.column("year")
	temperature := t.column("avgtemperaturec", "temperature")
	rainfall := t.column("totalrainfallmm", "rainfall")
	humidity := t.column("humiditypercent", "humidity")
	source := t.column("source")
	dataset := t.column("dataset")

	rows := make([]agridata.Climate, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, agridata.Climate{
			State:           cell(row, state),
			District:        cell(row, district),
			Year:            intCell(row, year),
			AvgTemperatureC: numericCell(row, temperature),
			TotalRainfallMM: numericCell(row, rainfall),
			HumidityPercent: numericCell(row, humidity),
			Source:          cell(row, source),
			Dataset:         cell(row, dataset),
		})
	}
	return rows
}

// Documents converts a table into retrieval documents. Agricultural and
// climate tables get the contextual treatment; everything else is rendered
// generically. source labels the documents' provenance, typically the file
// path or dataset name.
func Documents(t *Table, builder *corpus.Builder, source string) []corpus.Document {
	switch t.Kind() {
	case KindAgricultural:
		return builder.BuildAgricultural(productionRecords(t.Productions()), source)
	case KindClimate:
		return builder.BuildClimate(climateRecords(t.Climates()), source)
	default:
		return builder.BuildGeneric(t.Headers, t.Rows, source)
	}
}

// productionRecords lifts production rows into records with no climate side.
func productionRecords(rows []agridata.Production) []agridata.Record {
	records := make([]agridata.Record, len(rows))
	for i, p := range rows {
		records[i] = agridata.Record{
			State:            p.State,
			District:         p.District,
			Year:             p.Year,
			Crop:             p.Crop,
			Season:           p.Season,
			AreaHectares:     p.AreaHectares,
			YieldTonnesPerHa: p.YieldTonnesPerHa,
			ProductionTonnes: p.ProductionTonnes,
			AgriSource:       p.Source,
			AgriDataset:      p.Dataset,
		}
	}
	return records
}

// climateRecords lifts climate rows into records with no production side.
// Season stays empty, so no seasonal summaries are produced for them.
func climateRecords(rows []agridata.Climate) []agridata.Record {
	records := make([]agridata.Record, len(rows))
	for i, c := range rows {
		records[i] = agridata.Record{
			State:           c.State,
			District:        c.District,
			Year:            c.Year,
			AvgTemperatureC: c.AvgTemperatureC,
			TotalRainfallMM: c.TotalRainfallMM,
			HumidityPercent: c.HumidityPercent,
			ClimateSource:   c.Source,
			ClimateDataset:  c.Dataset,
		}
	}
	return records
}
