package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/krishiq/krishiq/agridata"
)

// filterState keeps the records for one state, matching case-insensitively.
func filterState(records []agridata.Record, state string) []agridata.Record {
	var out []agridata.Record
	for _, r := range records {
		if strings.EqualFold(r.State, state) {
			out = append(out, r)
		}
	}
	return out
}

// filterCrop keeps the records for one crop, matching case-insensitively.
func filterCrop(records []agridata.Record, crop string) []agridata.Record {
	var out []agridata.Record
	for _, r := range records {
		if strings.EqualFold(r.Crop, crop) {
			out = append(out, r)
		}
	}
	return out
}

// yearlySeries buckets records by year, ascending, and returns the matched
// years together with the production total and mean rainfall of each. The
// two series share the year index, which is what the correlation step needs.
func yearlySeries(records []agridata.Record) (years []int, production, rainfall []float64) {
	type bucket struct {
		production float64
		rainfall   float64
		count      int
	}
	buckets := make(map[int]*bucket)
	for _, r := range records {
		b := buckets[r.Year]
		if b == nil {
			b = &bucket{}
			buckets[r.Year] = b
		}
		b.production += r.ProductionTonnes
		b.rainfall += r.TotalRainfallMM
		b.count++
	}

	years = make([]int, 0, len(buckets))
	for year := range buckets {
		years = append(years, year)
	}
	sort.Ints(years)

	production = make([]float64, len(years))
	rainfall = make([]float64, len(years))
	for i, year := range years {
		b := buckets[year]
		production[i] = b.production
		rainfall[i] = b.rainfall / float64(b.count)
	}
	return years, production, rainfall
}

// districtTotals sums production per district and returns the totals keyed
// by district name alongside the names sorted alphabetically, so ties on
// extremes resolve deterministically.
func districtTotals(records []agridata.Record) (map[string]float64, []string) {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.District] += r.ProductionTonnes
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	return totals, names
}

// districtRainfall returns the mean rainfall over the records of one
// district, matching case-insensitively.
func districtRainfall(records []agridata.Record, district string) float64 {
	var sum float64
	var n int
	for _, r := range records {
		if strings.EqualFold(r.District, district) {
			sum += r.TotalRainfallMM
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// rainfallValues extracts the rainfall column of the records.
func rainfallValues(records []agridata.Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.TotalRainfallMM
	}
	return out
}

// citeRecords registers the provenance of every fetched record. A consulted
// dataset is cited even when the query matched nothing or the rows carry no
// provenance labels, falling back to the bundled dataset attributions.
func citeRecords(cites *Citations, records []agridata.Record) {
	before := cites.Len()
	for _, r := range records {
		if r.AgriSource != "" || r.AgriDataset != "" {
			cites.Add(r.AgriSource, r.AgriDataset)
		}
		if r.ClimateSource != "" || r.ClimateDataset != "" {
			cites.Add(r.ClimateSource, r.ClimateDataset)
		}
	}
	if cites.Len() == before {
		cites.Add(agridata.AgriSource, agridata.AgriDataset)
		cites.Add(agridata.ClimateSource, agridata.ClimateDataset)
	}
}

// formatComma renders a figure rounded to an integer with thousands
// separators, the way production totals read in answers.
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
