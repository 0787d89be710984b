package demographics

import (
	"hash/fnv"

	"github.com/sells-group/budget-cli/internal/model"
)

// Estimate returns a synthetic profile derived only from the ZIP string, so
// the same ZIP always gets the same numbers: annual income in
// [$50,000, $150,000), rent in [$800, $3,500).
func Estimate(zip string) model.AreaDemographics {
	h := fnv.New64a()
	_, _ = h.Write([]byte(zip))
	sum := h.Sum64()

	income := 50000 + float64(sum%100000)
	rent := 800 + float64((sum/100)%2700)
	density := 5000 + int((sum/10000)%30000)

	return model.AreaDemographics{
		ZipCode:                  zip,
		MedianMonthlyNetIncome:   monthlyNet(income),
		MedianMonthlyRent:        rent,
		RentPercentileVsNational: rentPercentile(rent),
		PopulationDensity:        density,
		CostOfLivingIndex:        costOfLivingIndex(rent),
		Source:                   model.SourceEstimate,
	}
}
