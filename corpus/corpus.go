// Package corpus turns tabular agricultural and climate data into the
// contextual text documents the retrieval layer indexes.
//
// Rows rarely make good retrieval units on their own, so the Builder groups
// them into state-year overviews, per-crop narratives, and climate
// summaries. Rows that fit no known shape fall back to a generic
// column-value rendering.
package corpus

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/krishiq/krishiq/agridata"
)

// DefaultMaxChunkSize bounds generic document text length in characters.
const DefaultMaxChunkSize = 1000

// Document is one indexable text chunk plus the metadata that travels with
// it into retrieved results. Metadata always carries "type" and "source".
type Document struct {
	Text     string
	Metadata map[string]string
}

// Builder produces Documents from joined records.
type Builder struct {
	maxChunkSize int
}

// NewBuilder returns a Builder. maxChunkSize bounds generic document text;
// zero or negative selects DefaultMaxChunkSize.
func NewBuilder(maxChunkSize int) *Builder {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Builder{maxChunkSize: maxChunkSize}
}

type stateYear struct {
	state string
	year  int
}

// BuildAgricultural produces one overview document per state-year group
// plus one document per crop row. Groups are ordered by state then year.
func (b *Builder) BuildAgricultural(records []agridata.Record, source string) []Document {
	groups, keys := groupByStateYear(records)

	var docs []Document
	for _, key := range keys {
		group := groups[key]

		var total float64
		for _, r := range group {
			total += r.ProductionTonnes
		}

		overview := fmt.Sprintf(
			"Agricultural production data for %s in %d: %d crop records, total production: %s tonnes",
			key.state, key.year, len(group), formatComma(total))

		docs = append(docs, Document{
			Text: overview,
			Metadata: map[string]string{
				"state":        key.state,
				"year":         strconv.Itoa(key.year),
				"type":         "agricultural_overview",
				"source":       source,
				"record_count": strconv.Itoa(len(group)),
			},
		})

		for _, r := range group {
			text := fmt.Sprintf(
				"In %s during %d, %s was cultivated on %s hectares with yield of %s tonnes/ha producing %s tonnes total",
				key.state, key.year, r.Crop,
				formatFloat(r.AreaHectares), formatFloat(r.YieldTonnesPerHa), formatFloat(r.ProductionTonnes))

			docs = append(docs, Document{
				Text: text,
				Metadata: map[string]string{
					"state":    key.state,
					"year":     strconv.Itoa(key.year),
					"crop":     r.Crop,
					"district": r.District,
					"type":     "crop_production",
					"source":   source,
				},
			})
		}
	}
	return docs
}

// BuildClimate produces one climate overview document per state-year group,
// plus a summary per season when records carry one. Joined records repeat
// the district climate once per crop, so figures are computed over distinct
// districts.
func (b *Builder) BuildClimate(records []agridata.Record, source string) []Document {
	groups, keys := groupByStateYear(records)

	var docs []Document
	for _, key := range keys {
		group := groups[key]
		distinct := distinctDistricts(group)

		var tempSum, rainSum, humiditySum float64
		for _, r := range distinct {
			tempSum += r.AvgTemperatureC
			rainSum += r.TotalRainfallMM
			humiditySum += r.HumidityPercent
		}
		n := float64(len(distinct))

		overview := fmt.Sprintf(
			"Climate data for %s in %d: average temperature %.1f°C, total rainfall %.0fmm, average humidity %.1f%%",
			key.state, key.year, tempSum/n, rainSum, humiditySum/n)

		docs = append(docs, Document{
			Text: overview,
			Metadata: map[string]string{
				"state":  key.state,
				"year":   strconv.Itoa(key.year),
				"type":   "climate_overview",
				"source": source,
			},
		})

		for _, season := range distinctSeasons(group) {
			var seasonal []agridata.Record
			for _, r := range group {
				if r.Season == season {
					seasonal = append(seasonal, r)
				}
			}
			seasonal = distinctDistricts(seasonal)

			var t, rain float64
			for _, r := range seasonal {
				t += r.AvgTemperatureC
				rain += r.TotalRainfallMM
			}

			text := fmt.Sprintf("%s %s %d: temperature %.1f°C, rainfall %.0fmm",
				key.state, season, key.year, t/float64(len(seasonal)), rain)

			docs = append(docs, Document{
				Text: text,
				Metadata: map[string]string{
					"state":  key.state,
					"year":   strconv.Itoa(key.year),
					"season": season,
					"type":   "seasonal_climate",
					"source": source,
				},
			})
		}
	}
	return docs
}

// BuildAll produces the agricultural documents followed by the climate ones.
func (b *Builder) BuildAll(records []agridata.Record, source string) []Document {
	docs := b.BuildAgricultural(records, source)
	return append(docs, b.BuildClimate(records, source)...)
}

// BuildGeneric renders arbitrary tabular rows as "column: value" documents.
// Cells that are empty or read N/A, nan, or null are dropped; rows with no
// usable cells produce no document. Text longer than the chunk budget is
// truncated with an ellipsis.
func (b *Builder) BuildGeneric(columns []string, rows [][]string, source string) []Document {
	var docs []Document
	for _, row := range rows {
		var parts []string
		for i, value := range row {
			if i >= len(columns) {
				break
			}
			if !usableCell(value) {
				continue
			}
			parts = append(parts, columns[i]+": "+value)
		}
		if len(parts) == 0 {
			continue
		}

		text := strings.Join(parts, ", ")
		if runes := []rune(text); len(runes) > b.maxChunkSize {
			text = string(runes[:b.maxChunkSize]) + "..."
		}

		docs = append(docs, Document{
			Text: text,
			Metadata: map[string]string{
				"source": source,
				"type":   "generic_data",
			},
		})
	}
	return docs
}

func groupByStateYear(records []agridata.Record) (map[stateYear][]agridata.Record, []stateYear) {
	groups := make(map[stateYear][]agridata.Record)
	for _, r := range records {
		key := stateYear{state: r.State, year: r.Year}
		groups[key] = append(groups[key], r)
	}

	keys := make([]stateYear, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].state != keys[j].state {
			return keys[i].state < keys[j].state
		}
		return keys[i].year < keys[j].year
	})

	return groups, keys
}

// distinctDistricts keeps the first record per district, preserving order.
func distinctDistricts(records []agridata.Record) []agridata.Record {
	seen := make(map[string]bool, len(records))
	var out []agridata.Record
	for _, r := range records {
		key := strings.ToLower(r.District)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// distinctSeasons returns non-empty seasons in first-seen order.
func distinctSeasons(records []agridata.Record) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, r := range records {
		if r.Season == "" || seen[r.Season] {
			continue
		}
		seen[r.Season] = true
		out = append(out, r.Season)
	}
	return out
}

func usableCell(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "n/a", "nan", "null":
		return false
	}
	return true
}

// formatFloat renders a figure the shortest way: whole numbers without a
// decimal point, fractions as written.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatComma renders a figure rounded to an integer with thousands
// separators, e.g. 102000 as "102,000".
func formatComma(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
