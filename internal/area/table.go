// Package area classifies ZIP codes and cities by cost of living and
// supplies nearby ZIP codes for consensus checks. All lookups are pure and
// backed by a single static table.
package area

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed areas.yaml
var embeddedTable []byte

// Metro is a named metropolitan cluster with rough market figures.
type Metro struct {
	Key            string   `yaml:"key" json:"key"`
	Name           string   `yaml:"name" json:"name"`
	AverageRent    float64  `yaml:"average_rent" json:"average_rent"`
	AverageIncome  float64  `yaml:"average_income" json:"average_income"`
	RentPercentile float64  `yaml:"rent_percentile" json:"rent_percentile"`
	Zips           []string `yaml:"zips" json:"zips"`
}

// Place is the city and state a ZIP code belongs to.
type Place struct {
	City  string `yaml:"city" json:"city"`
	State string `yaml:"state" json:"state"`
}

// Cluster is a set of physically adjacent ZIP codes.
type Cluster struct {
	Name string   `yaml:"name"`
	Zips []string `yaml:"zips"`
}

// Table is the classification data set. Build one with LoadTable,
// ParseTable or DefaultTable; the zero value is not usable.
type Table struct {
	HCOLZips   []string         `yaml:"hcol_zips"`
	HCOLCities []string         `yaml:"hcol_cities"`
	Metros     []Metro          `yaml:"metros"`
	Zips       map[string]Place `yaml:"zips"`
	Clusters   []Cluster        `yaml:"neighbor_clusters"`

	hcolZips     map[string]struct{}
	foldedCities []string
	metroByZip   map[string]int
	clusterByZip map[string]int
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return ParseTable(embeddedTable)
})

// DefaultTable returns the embedded table. It panics only if the embedded
// asset itself is corrupt.
func DefaultTable() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTable reads a table from a YAML file. An empty path returns the
// embedded table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return defaultTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "area: read table %s", path)
	}
	return ParseTable(data)
}

// ParseTable decodes and indexes a YAML table.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "area: parse table")
	}
	if err := t.index(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) index() error {
	fold := cases.Fold()

	t.hcolZips = make(map[string]struct{}, len(t.HCOLZips))
	for _, z := range t.HCOLZips {
		z = strings.TrimSpace(z)
		if len(z) != 2 && len(z) != 5 {
			return eris.Errorf("area: hcol entry %q must be a 5-digit zip or 2-digit prefix", z)
		}
		t.hcolZips[z] = struct{}{}
	}

	t.foldedCities = make([]string, 0, len(t.HCOLCities))
	for _, c := range t.HCOLCities {
		if c = strings.TrimSpace(c); c != "" {
			t.foldedCities = append(t.foldedCities, fold.String(c))
		}
	}

	// First metro listing a ZIP wins.
	t.metroByZip = make(map[string]int)
	for i, m := range t.Metros {
		if m.Key == "" {
			return eris.Errorf("area: metro %d has no key", i)
		}
		for _, z := range m.Zips {
			if _, ok := t.metroByZip[z]; !ok {
				t.metroByZip[z] = i
			}
		}
	}

	t.clusterByZip = make(map[string]int)
	for i, c := range t.Clusters {
		for _, z := range c.Zips {
			if _, ok := t.clusterByZip[z]; !ok {
				t.clusterByZip[z] = i
			}
		}
	}

	if t.Zips == nil {
		t.Zips = map[string]Place{}
	}
	return nil
}
