package demographics

import (
	"math"

	"github.com/sells-group/budget-cli/pkg/census"
)

const (
	// NationalMedianRent anchors the rent percentile and cost-of-living index.
	NationalMedianRent = 1800.0

	// FallbackAnnualIncome replaces missing or implausible incomes.
	FallbackAnnualIncome = 75000.0

	// ACS 5-year rents trail current market rents.
	rentInflation = 1.30

	// Share of gross income left after taxes.
	netIncomeRatio = 0.70

	minPlausibleIncome = 20000.0
	maxPlausibleIncome = 500000.0

	// Relative rent gap above which the target is treated as an outlier.
	outlierThreshold = 0.30

	minCostOfLivingIndex = 50.0

	// Assumed ZIP area in square miles for the density estimate.
	zipAreaSqMi = 10
)

// sample is one normalized observation: annual gross income, current
// monthly rent and head count.
type sample struct {
	income     float64
	rent       float64
	population int
}

func normalize(obs *census.Observation) sample {
	s := sample{income: FallbackAnnualIncome, rent: NationalMedianRent}
	if obs.MedianIncome != nil {
		if v := *obs.MedianIncome; v >= minPlausibleIncome && v <= maxPlausibleIncome {
			s.income = v
		}
	}
	if obs.MedianRent != nil && *obs.MedianRent > 0 {
		s.rent = *obs.MedianRent
	}
	s.rent *= rentInflation
	if obs.Population != nil && *obs.Population > 0 {
		s.population = *obs.Population
	}
	return s
}

// consensus corrects target when its rent differs from the highest rent in
// collected by more than 30% of the larger of the two. The correction only
// ever pulls toward the maximum: rent becomes the midpoint of target and
// max, income the mean of every collected income. It needs at least two
// samples.
func consensus(target sample, collected []sample) (sample, bool) {
	if len(collected) < 2 {
		return target, false
	}

	maxRent := collected[0].rent
	var incomeSum float64
	for _, s := range collected {
		maxRent = math.Max(maxRent, s.rent)
		incomeSum += s.income
	}

	denom := math.Max(maxRent, target.rent)
	if denom <= 0 || math.Abs(maxRent-target.rent)/denom <= outlierThreshold {
		return target, false
	}

	target.rent = (target.rent + maxRent) / 2
	target.income = incomeSum / float64(len(collected))
	return target, true
}

// mean averages every field of samples. samples must not be empty.
func mean(samples []sample) sample {
	var out sample
	var pop int
	for _, s := range samples {
		out.income += s.income
		out.rent += s.rent
		pop += s.population
	}
	n := float64(len(samples))
	out.income /= n
	out.rent /= n
	out.population = pop / len(samples)
	return out
}

func monthlyNet(annualGross float64) float64 {
	return annualGross / 12 * netIncomeRatio
}

func rentPercentile(rent float64) float64 {
	return math.Min(math.Max(rent/NationalMedianRent*100, 0), 100)
}

func costOfLivingIndex(rent float64) float64 {
	return math.Max(rent/NationalMedianRent*100, minCostOfLivingIndex)
}

func populationDensity(population int) int {
	return population / zipAreaSqMi
}
