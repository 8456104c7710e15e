package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/query"
)

// compareStates reports total production and mean rainfall per mentioned
// state, with a per-crop breakdown when crops were mentioned too. Questions
// without a year default to the two most recent dataset years.
func (p *Pipeline) compareStates(ctx context.Context, analysis query.Analysis, cites *Citations) (string, error) {
	if len(analysis.States) == 0 {
		return msgSpecifyStates, nil
	}

	years := analysis.Years
	if len(years) == 0 {
		years = defaultComparisonYears
	}

	records, err := p.provider.Query(ctx, agridata.Filter{States: analysis.States, Years: years})
	if err != nil {
		return "", fmt.Errorf("query dataset: %w", err)
	}
	if len(records) == 0 {
		return msgNoData, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Comparative Analysis: %s**\n\n", strings.Join(analysis.States, ", "))
	b.WriteString("**Agricultural Production:**\n")

	for _, state := range analysis.States {
		stateRecords := filterState(records, state)
		if len(stateRecords) == 0 {
			continue
		}

		var total float64
		for _, r := range stateRecords {
			total += r.ProductionTonnes
		}
		fmt.Fprintf(&b, "- **%s**: Total production: %s tonnes, Avg rainfall: %.0fmm\n",
			state, formatComma(total), mean(rainfallValues(stateRecords)))

		for _, crop := range analysis.Crops {
			cropRecords := filterCrop(stateRecords, crop)
			if len(cropRecords) == 0 {
				continue
			}
			var cropTotal float64
			for _, r := range cropRecords {
				cropTotal += r.ProductionTonnes
			}
			fmt.Fprintf(&b, "  - %s: %s tonnes\n", crop, formatComma(cropTotal))
		}
	}

	citeRecords(cites, records)
	return b.String(), nil
}
