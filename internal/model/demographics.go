package model

// DemographicsSource records how an AreaDemographics value was produced.
type DemographicsSource string

const (
	SourceCensus    DemographicsSource = "census"    // live target data, no correction
	SourceConsensus DemographicsSource = "consensus" // target corrected toward neighbors
	SourceNeighbors DemographicsSource = "neighbors" // target missing, derived from neighbors
	SourceEstimate  DemographicsSource = "estimate"  // synthetic, deterministic per ZIP
)

// AreaDemographics is the resolved cost-of-living profile of a ZIP code.
// Values are immutable once returned by the resolver.
type AreaDemographics struct {
	ZipCode                  string             `json:"zip_code"`
	MedianMonthlyNetIncome   float64            `json:"median_monthly_net_income"`
	MedianMonthlyRent        float64            `json:"median_monthly_rent"`
	RentPercentileVsNational float64            `json:"rent_percentile_vs_national"` // clamped to [0,100]
	PopulationDensity        int                `json:"population_density"`
	CostOfLivingIndex        float64            `json:"cost_of_living_index"` // national = 100, floor 50
	Source                   DemographicsSource `json:"source"`
	Samples                  int                `json:"samples"` // successful fetches that fed the result
}

// NeighborhoodComparison contrasts a household's income and housing cost
// with the resolved demographics of its ZIP code.
type NeighborhoodComparison struct {
	ZipCode               string  `json:"zip_code"`
	UserIncome            float64 `json:"user_income"`
	UserHousingCost       float64 `json:"user_housing_cost"`
	UserHousingPercentage float64 `json:"user_housing_percentage"`
	AreaIncome            float64 `json:"area_income"`
	AreaHousingCost       float64 `json:"area_housing_cost"`
	AreaHousingPercentage float64 `json:"area_housing_percentage"`
	IncomeDifference      float64 `json:"income_difference"`
	HousingDifference     float64 `json:"housing_difference"`
	PercentageDifference  float64 `json:"percentage_difference"`
	IncomeStatus          string  `json:"income_status"`
	HousingStatus         string  `json:"housing_status"`
	PercentageStatus      string  `json:"percentage_status"`
	Insight               Insight `json:"insight"`
	InsightText           string  `json:"insight_text"`
}

// Insight grades how a household's housing share sits against its area.
type Insight string

const (
	InsightAbove         Insight = "above"
	InsightSlightlyAbove Insight = "slightly_above"
	InsightBelow         Insight = "below"
)
