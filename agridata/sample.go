package agridata

// SampleProductions returns the bundled agricultural production table:
// 2022 figures for five states plus historical Pune rice rows for trend
// questions. Figures mirror the published government sample statistics.
func SampleProductions() []Production {
	return []Production{
		{State: "Maharashtra", District: "Pune", Crop: "Rice", Season: "Kharif",
			Year: 2022, AreaHectares: 1500, YieldTonnesPerHa: 3.2, ProductionTonnes: 4800,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Maharashtra", District: "Pune", Crop: "Wheat", Season: "Rabi",
			Year: 2022, AreaHectares: 800, YieldTonnesPerHa: 2.8, ProductionTonnes: 2240,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Karnataka", District: "Bangalore", Crop: "Maize", Season: "Kharif",
			Year: 2022, AreaHectares: 600, YieldTonnesPerHa: 4.1, ProductionTonnes: 2460,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Karnataka", District: "Bangalore", Crop: "Cotton", Season: "Kharif",
			Year: 2022, AreaHectares: 900, YieldTonnesPerHa: 2.5, ProductionTonnes: 2250,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Tamil Nadu", District: "Coimbatore", Crop: "Sugarcane", Season: "Annual",
			Year: 2022, AreaHectares: 1200, YieldTonnesPerHa: 85, ProductionTonnes: 102000,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Punjab", District: "Ludhiana", Crop: "Wheat", Season: "Rabi",
			Year: 2022, AreaHectares: 5000, YieldTonnesPerHa: 4.5, ProductionTonnes: 22500,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Punjab", District: "Ludhiana", Crop: "Rice", Season: "Kharif",
			Year: 2022, AreaHectares: 3000, YieldTonnesPerHa: 3.8, ProductionTonnes: 11400,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Gujarat", District: "Ahmedabad", Crop: "Cotton", Season: "Kharif",
			Year: 2022, AreaHectares: 1500, YieldTonnesPerHa: 2.2, ProductionTonnes: 3300,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Maharashtra", District: "Pune", Crop: "Rice", Season: "Kharif",
			Year: 2021, AreaHectares: 1450, YieldTonnesPerHa: 3.1, ProductionTonnes: 4495,
			Source: AgriSource, Dataset: AgriDataset},
		{State: "Maharashtra", District: "Pune", Crop: "Rice", Season: "Kharif",
			Year: 2020, AreaHectares: 1400, YieldTonnesPerHa: 3.3, ProductionTonnes: 4620,
			Source: AgriSource, Dataset: AgriDataset},
	}
}

// SampleClimates returns the bundled district climate table covering the
// same state, district, and year keys as SampleProductions.
func SampleClimates() []Climate {
	return []Climate{
		{State: "Maharashtra", District: "Pune", Year: 2022,
			AvgTemperatureC: 28, TotalRainfallMM: 650, HumidityPercent: 65,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Maharashtra", District: "Pune", Year: 2021,
			AvgTemperatureC: 27, TotalRainfallMM: 580, HumidityPercent: 62,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Maharashtra", District: "Pune", Year: 2020,
			AvgTemperatureC: 29, TotalRainfallMM: 720, HumidityPercent: 68,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Karnataka", District: "Bangalore", Year: 2022,
			AvgTemperatureC: 26, TotalRainfallMM: 720, HumidityPercent: 70,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Karnataka", District: "Bangalore", Year: 2021,
			AvgTemperatureC: 25, TotalRainfallMM: 680, HumidityPercent: 68,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Tamil Nadu", District: "Coimbatore", Year: 2022,
			AvgTemperatureC: 29, TotalRainfallMM: 800, HumidityPercent: 75,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Punjab", District: "Ludhiana", Year: 2022,
			AvgTemperatureC: 18, TotalRainfallMM: 400, HumidityPercent: 60,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Punjab", District: "Ludhiana", Year: 2021,
			AvgTemperatureC: 19, TotalRainfallMM: 450, HumidityPercent: 58,
			Source: ClimateSource, Dataset: ClimateDataset},
		{State: "Gujarat", District: "Ahmedabad", Year: 2022,
			AvgTemperatureC: 31, TotalRainfallMM: 550, HumidityPercent: 55,
			Source: ClimateSource, Dataset: ClimateDataset},
	}
}

// NewSampleProvider returns a MemoryProvider preloaded with the bundled
// sample tables. Every production row has a climate match, so the join
// yields one record per production row.
func NewSampleProvider() *MemoryProvider {
	return NewMemoryProvider(SampleProductions(), SampleClimates())
}
