package area

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/budget-cli/internal/model"
)

// HighRentPercentile is the metro rent percentile at or above which a metro
// counts as high-rent.
const HighRentPercentile = 85

// Classifier answers cost-of-living questions about a ZIP code or city.
type Classifier struct {
	table *Table
}

// NewClassifier creates a Classifier over t.
func NewClassifier(t *Table) *Classifier {
	return &Classifier{table: t}
}

// IsHCOLArea reports whether the ZIP or city is a high-cost-of-living area.
// Lookup order: exact ZIP, 2-digit ZIP prefix, exact city, then any curated
// city name contained in the supplied city. City comparisons ignore case.
func (c *Classifier) IsHCOLArea(zip, city string) bool {
	zip = strings.TrimSpace(zip)
	city = strings.TrimSpace(city)

	if _, ok := c.table.hcolZips[zip]; ok && zip != "" {
		return true
	}
	if len(zip) >= 2 {
		if _, ok := c.table.hcolZips[zip[:2]]; ok {
			return true
		}
	}

	if city == "" {
		return false
	}
	folded := cases.Fold().String(city)
	for _, hc := range c.table.foldedCities {
		if folded == hc {
			return true
		}
	}
	for _, hc := range c.table.foldedCities {
		if strings.Contains(folded, hc) {
			return true
		}
	}
	return false
}

// Metro returns the metro cluster that lists zip.
func (c *Classifier) Metro(zip string) (Metro, bool) {
	i, ok := c.table.metroByZip[strings.TrimSpace(zip)]
	if !ok {
		return Metro{}, false
	}
	return c.table.Metros[i], true
}

// IsHighRentMetro reports whether zip belongs to a high-rent metro.
func (c *Classifier) IsHighRentMetro(zip string) bool {
	m, ok := c.Metro(zip)
	return ok && m.RentPercentile >= HighRentPercentile
}

// Metros returns all metros, most expensive rent first.
func (c *Classifier) Metros() []Metro {
	out := slices.Clone(c.table.Metros)
	slices.SortStableFunc(out, func(a, b Metro) int {
		return cmp.Compare(b.AverageRent, a.AverageRent)
	})
	return out
}

// HighRentMetros returns the high-rent subset of Metros.
func (c *Classifier) HighRentMetros() []Metro {
	var out []Metro
	for _, m := range c.Metros() {
		if m.RentPercentile >= HighRentPercentile {
			out = append(out, m)
		}
	}
	return out
}

// LookupZip returns the city and state for zip.
func (c *Classifier) LookupZip(zip string) (Place, bool) {
	p, ok := c.table.Zips[strings.TrimSpace(zip)]
	return p, ok
}

// Classification is the combined view of everything known about an area.
type Classification struct {
	ZipCode  string     `json:"zip_code"`
	City     string     `json:"city,omitempty"`
	State    string     `json:"state,omitempty"`
	IsHCOL   bool       `json:"is_hcol"`
	Tier     model.Tier `json:"tier"`
	Metro    string     `json:"metro,omitempty"`
	HighRent bool       `json:"high_rent_metro"`
}

// Classify combines the HCOL flag, metro and place for zip. When city is
// blank the city from the ZIP table is used for the HCOL check.
func (c *Classifier) Classify(zip, city string) Classification {
	zip = strings.TrimSpace(zip)
	city = strings.TrimSpace(city)

	out := Classification{ZipCode: zip, City: city}
	if p, ok := c.LookupZip(zip); ok {
		if out.City == "" {
			out.City = p.City
		}
		out.State = p.State
	}
	out.IsHCOL = c.IsHCOLArea(zip, out.City)
	out.Tier = model.TierFor(out.IsHCOL)
	if m, ok := c.Metro(zip); ok {
		out.Metro = m.Name
		out.HighRent = m.RentPercentile >= HighRentPercentile
	}
	return out
}
