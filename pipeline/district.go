package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/query"
)

// compareDistricts reports, per mentioned state, the districts with the
// highest and lowest total production of the first mentioned crop across
// all available years, and compares mean rainfall between the two. When a
// single district tops and bottoms the table the rainfall line collapses to
// one figure instead of comparing a district with itself.
func (p *Pipeline) compareDistricts(ctx context.Context, analysis query.Analysis, cites *Citations) (string, error) {
	if len(analysis.States) == 0 || len(analysis.Crops) == 0 {
		return msgSpecifyDistrict, nil
	}
	crop := analysis.Crops[0]

	records, err := p.provider.Query(ctx, agridata.Filter{States: analysis.States})
	if err != nil {
		return "", fmt.Errorf("query dataset: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**District-level Analysis: %s production in %s**\n\n", crop, strings.Join(analysis.States, ", "))

	for _, state := range analysis.States {
		cropRecords := filterCrop(filterState(records, state), crop)
		if len(cropRecords) == 0 {
			continue
		}

		totals, districts := districtTotals(cropRecords)
		highest, lowest := districts[0], districts[0]
		for _, district := range districts[1:] {
			if totals[district] > totals[highest] {
				highest = district
			}
			if totals[district] < totals[lowest] {
				lowest = district
			}
		}

		fmt.Fprintf(&b, "**%s:**\n", state)
		fmt.Fprintf(&b, "**Highest production**: %s (%s tonnes)\n", highest, formatComma(totals[highest]))
		fmt.Fprintf(&b, "**Lowest production**: %s (%s tonnes)\n", lowest, formatComma(totals[lowest]))

		highestRainfall := districtRainfall(cropRecords, highest)
		if highest != lowest {
			fmt.Fprintf(&b, "**Climate factor**: %s receives %.0fmm avg rainfall vs %.0fmm in %s\n",
				highest, highestRainfall, districtRainfall(cropRecords, lowest), lowest)
		} else {
			fmt.Fprintf(&b, "**Climate factor**: %s receives %.0fmm avg rainfall\n", highest, highestRainfall)
		}
		b.WriteString("\n")
	}

	citeRecords(cites, records)
	return b.String(), nil
}
