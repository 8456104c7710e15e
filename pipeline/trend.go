package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/query"
)

// analyzeTrend reports, per mentioned state, the yearly production series of
// the first mentioned crop side by side with the yearly mean rainfall, plus
// the Pearson correlation between the two when at least two years matched.
// The lookback window is always 2018-2022; years in the question are
// ignored. Multi-crop trends are out of scope.
func (p *Pipeline) analyzeTrend(ctx context.Context, analysis query.Analysis, cites *Citations) (string, error) {
	if len(analysis.States) == 0 || len(analysis.Crops) == 0 {
		return msgSpecifyTrend, nil
	}
	crop := analysis.Crops[0]

	records, err := p.provider.Query(ctx, agridata.Filter{States: analysis.States, Years: historicalWindow()})
	if err != nil {
		return "", fmt.Errorf("query dataset: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Trend Analysis: %s production in %s**\n\n", crop, strings.Join(analysis.States, ", "))

	for _, state := range analysis.States {
		cropRecords := filterCrop(filterState(records, state), crop)
		if len(cropRecords) == 0 {
			continue
		}

		years, production, rainfall := yearlySeries(cropRecords)

		fmt.Fprintf(&b, "**%s:**\n", state)
		b.WriteString("Production trend (tonnes):\n")
		for i, year := range years {
			fmt.Fprintf(&b, "- %d: %s\n", year, formatComma(production[i]))
		}
		b.WriteString("Corresponding rainfall (mm):\n")
		for i, year := range years {
			fmt.Fprintf(&b, "- %d: %.0fmm\n", year, rainfall[i])
		}

		if len(years) > 1 {
			correlation := pearson(production, rainfall)
			fmt.Fprintf(&b, "\n**Correlation with rainfall:** %.2f\n", correlation)
			switch {
			case correlation > 0.5:
				b.WriteString("Positive correlation: Higher rainfall tends to increase production\n")
			case correlation < -0.5:
				b.WriteString("Negative correlation: Higher rainfall may decrease production\n")
			default:
				b.WriteString("Weak correlation: Production not strongly affected by rainfall\n")
			}
		}
		b.WriteString("\n")
	}

	citeRecords(cites, records)
	return b.String(), nil
}
