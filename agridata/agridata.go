// Package agridata defines the joined agricultural production and district
// climate dataset that the answering strategies aggregate over.
//
// Production and climate figures live in separate tables keyed by state,
// district, and year. Query joins them on that key and hands back flat
// Records, so callers never deal with the two-table layout. Backends that
// persist the tables elsewhere implement Provider; the in-memory provider in
// this package is the default and ships with the government sample tables.
package agridata

import (
	"context"
	"strings"
)

// Provenance labels carried by the bundled government sample tables.
const (
	AgriSource     = "Ministry of Agriculture & Farmers Welfare"
	AgriDataset    = "Agricultural Production Statistics"
	ClimateSource  = "India Meteorological Department"
	ClimateDataset = "District-wise Climate Statistics"
)

// Production is one row of the agricultural production table.
type Production struct {
	State            string
	District         string
	Crop             string
	Season           string
	Year             int
	AreaHectares     float64
	YieldTonnesPerHa float64
	ProductionTonnes float64
	Source           string
	Dataset          string
}

// Climate is one row of the district climate table.
type Climate struct {
	State           string
	District        string
	Year            int
	AvgTemperatureC float64
	TotalRainfallMM float64
	HumidityPercent float64
	Source          string
	Dataset         string
}

// Record is one joined row: a crop's production figures together with the
// climate observed in its district that year, plus the provenance of both
// sides. Records are read-only from the caller's perspective.
type Record struct {
	State    string
	District string
	Year     int

	Crop             string
	Season           string
	AreaHectares     float64
	YieldTonnesPerHa float64
	ProductionTonnes float64

	AvgTemperatureC float64
	TotalRainfallMM float64
	HumidityPercent float64

	AgriSource     string
	AgriDataset    string
	ClimateSource  string
	ClimateDataset string
}

// Filter narrows a Query. A nil or empty slice leaves that column
// unconstrained. String matching ignores case.
type Filter struct {
	States    []string
	Crops     []string
	Years     []int
	Districts []string
}

// Match reports whether r satisfies every constraint in f.
func (f Filter) Match(r Record) bool {
	if len(f.States) > 0 && !containsFold(f.States, r.State) {
		return false
	}
	if len(f.Crops) > 0 && !containsFold(f.Crops, r.Crop) {
		return false
	}
	if len(f.Years) > 0 && !containsInt(f.Years, r.Year) {
		return false
	}
	if len(f.Districts) > 0 && !containsFold(f.Districts, r.District) {
		return false
	}
	return true
}

// Provider supplies joined records matching a filter. Implementations must
// return records in a deterministic order so formatted answers are
// reproducible, and must be safe for concurrent use.
type Provider interface {
	Query(ctx context.Context, f Filter) ([]Record, error)
}

// Join inner-joins production rows with climate rows on (State, District,
// Year), matching state and district case-insensitively. Output follows
// production row order. A production row with no climate match is dropped;
// one with several matches yields one record per match.
func Join(productions []Production, climates []Climate) []Record {
	var out []Record
	for _, p := range productions {
		for _, c := range climates {
			if p.Year != c.Year ||
				!strings.EqualFold(p.State, c.State) ||
				!strings.EqualFold(p.District, c.District) {
				continue
			}
			out = append(out, Record{
				State:    p.State,
				District: p.District,
				Year:     p.Year,

				Crop:             p.Crop,
				Season:           p.Season,
				AreaHectares:     p.AreaHectares,
				YieldTonnesPerHa: p.YieldTonnesPerHa,
				ProductionTonnes: p.ProductionTonnes,

				AvgTemperatureC: c.AvgTemperatureC,
				TotalRainfallMM: c.TotalRainfallMM,
				HumidityPercent: c.HumidityPercent,

				AgriSource:     p.Source,
				AgriDataset:    p.Dataset,
				ClimateSource:  c.Source,
				ClimateDataset: c.Dataset,
			})
		}
	}
	return out
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}
