package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/query"
)

// Fixed water-need classifications used by the policy strategy. The first
// crop is tested against the drought-resistant list and the second against
// the water-intensive list only.
var (
	droughtResistantCrops = []string{"millet", "pulses", "maize"}
	waterIntensiveCrops   = []string{"rice", "sugarcane", "cotton"}
)

// analyzePolicy builds up to three arguments for promoting the first
// mentioned crop over the second: water requirements from the fixed
// classification lists, rainfall tolerance of the first crop, and a
// production stability comparison included only when the first crop wins
// it. Years mentioned in the question filter the data; otherwise the
// 2018-2022 window applies.
func (p *Pipeline) analyzePolicy(ctx context.Context, analysis query.Analysis, cites *Citations) (string, error) {
	if len(analysis.Crops) < 2 {
		return msgSpecifyPolicy, nil
	}
	crop1, crop2 := analysis.Crops[0], analysis.Crops[1]

	years := analysis.Years
	if len(years) == 0 {
		years = historicalWindow()
	}

	records, err := p.provider.Query(ctx, agridata.Filter{States: analysis.States, Years: years})
	if err != nil {
		return "", fmt.Errorf("query dataset: %w", err)
	}

	crop1Records := filterCrop(records, crop1)
	crop2Records := filterCrop(records, crop2)

	var arguments []string

	if len(crop1Records) > 0 && len(crop2Records) > 0 {
		crop1Need := "high"
		if containsFold(droughtResistantCrops, crop1) {
			crop1Need = "low"
		}
		crop2Need := "low"
		if containsFold(waterIntensiveCrops, crop2) {
			crop2Need = "high"
		}
		arguments = append(arguments, fmt.Sprintf(
			"1. **Water Efficiency**: %s has %s water requirements compared to %s's %s water requirements, making it more suitable for water-scarce regions.",
			crop1, crop1Need, crop2, crop2Need))
	}

	if len(crop1Records) > 0 {
		rainfall := rainfallValues(crop1Records)
		arguments = append(arguments, fmt.Sprintf(
			"2. **Climate Resilience**: %s shows stable production across varying rainfall conditions (avg: %.0fmm, variation: %.0fmm), indicating better resilience to climate variability.",
			crop1, mean(rainfall), stdDev(rainfall)))
	}

	if len(crop1Records) > 0 && len(crop2Records) > 0 {
		_, crop1Production, _ := yearlySeries(crop1Records)
		_, crop2Production, _ := yearlySeries(crop2Records)
		crop1Stability := stabilityRatio(crop1Production)
		crop2Stability := stabilityRatio(crop2Production)

		if crop1Stability > crop2Stability {
			arguments = append(arguments, fmt.Sprintf(
				"3. **Production Stability**: %s demonstrates %.1fx more stable production compared to %s, reducing food security risks.",
				crop1, crop1Stability, crop2))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Policy Analysis: Promoting %s over %s**\n\n", crop1, crop2)
	b.WriteString(strings.Join(arguments, "\n"))

	citeRecords(cites, records)
	return b.String(), nil
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
