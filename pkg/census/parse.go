package census

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// parseResponse decodes the ACS 2-D array: a header row naming the
// variables, then one data row. Columns are located by header name, falling
// back to request order when the header is unrecognized.
func parseResponse(body []byte) (*Observation, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrNoData
	}
	if len(body) >= 5 && strings.EqualFold(string(body[:5]), "error") {
		return nil, eris.Errorf("census: provider error: %s", truncate(string(body), 200))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var rows [][]any
	if err := dec.Decode(&rows); err != nil {
		return nil, eris.Wrap(err, "census: parse response")
	}
	if len(rows) < 2 {
		return nil, ErrNoData
	}

	header, data := rows[0], rows[1]
	if len(data) < 3 {
		return nil, eris.Errorf("census: data row has %d cells, want at least 3", len(data))
	}

	col := func(name string, fallback int) any {
		for i, h := range header {
			if s, ok := h.(string); ok && s == name && i < len(data) {
				return data[i]
			}
		}
		return data[fallback]
	}

	obs := &Observation{
		MedianIncome: cellFloat(col(VarMedianIncome, 0)),
		MedianRent:   cellFloat(col(VarMedianRent, 1)),
	}
	if p := cellFloat(col(VarPopulation, 2)); p != nil {
		n := int(math.Round(*p))
		obs.Population = &n
	}
	return obs, nil
}

// cellFloat reads a numeric cell. Census encodes "not available" as large
// negative sentinels (-666666666 and friends), so negatives are treated as
// missing along with nulls and non-numeric strings.
func cellFloat(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return nil
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil {
			return nil
		}
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
