//go:build !integration

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/config"
)

// censusStub serves the same ACS row for every ZIP and counts requests.
type censusStub struct {
	*httptest.Server
	requests atomic.Int32
}

func newCensusStub(t *testing.T) *censusStub {
	t.Helper()
	s := &censusStub{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		zip := strings.TrimPrefix(r.URL.Query().Get("for"), "zip code tabulation area:")
		_, _ = io.WriteString(w, `[["B19013_001E","B25064_001E","B01003_001E","zip code tabulation area"],
			["84000","1900","40000","`+zip+`"]]`)
	}))
	t.Cleanup(s.Close)
	return s
}

// useConfig installs a config backed by a temp sqlite store and the given
// census base URL, restoring the previous one after the test.
func useConfig(t *testing.T, censusURL string) *config.Config {
	t.Helper()
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = &config.Config{
		Census: config.CensusConfig{
			BaseURL:     censusURL,
			Year:        2021,
			Dataset:     "acs/acs5",
			MaxAttempts: 1,
		},
		Resolver: config.ResolverConfig{
			FetchTimeoutSecs:  5,
			MaxNeighbors:      4,
			MaxConcurrentZips: 2,
		},
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "budget.db"),
			TTLHours:    24,
		},
		Server: config.ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Log:    config.LogConfig{Level: "error", Format: "json"},
	}
	return cfg
}

// resetFlags restores the package-level flag values after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	prevAnalyze := analyzeInput
	prevAnalyzeFormat, prevCompare := analyzeFormat, analyzeCompare
	prevDemoFile, prevDemoFormat := demographicsFile, demographicsFormat
	prevIncome, prevHousing, prevCompareFormat := compareIncome, compareHousing, compareFormat
	prevCity, prevMetros, prevHighRent, prevAreaFormat := areaCity, areaMetros, areaHighRent, areaFormat
	prevExpired := cacheExpired

	t.Cleanup(func() {
		analyzeInput = prevAnalyze
		analyzeFormat, analyzeCompare = prevAnalyzeFormat, prevCompare
		demographicsFile, demographicsFormat = prevDemoFile, prevDemoFormat
		compareIncome, compareHousing, compareFormat = prevIncome, prevHousing, prevCompareFormat
		areaCity, areaMetros, areaHighRent, areaFormat = prevCity, prevMetros, prevHighRent, prevAreaFormat
		cacheExpired = prevExpired
	})

	analyzeInput = budget.RawInput{HCOL: "auto"}
	analyzeFormat, analyzeCompare = formatTable, false
	demographicsFile, demographicsFormat = "", formatTable
	compareIncome, compareHousing, compareFormat = "", "", formatTable
	areaCity, areaMetros, areaHighRent, areaFormat = "", false, false, formatTable
	cacheExpired = false
}
