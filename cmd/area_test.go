//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/budget-cli/internal/area"
	"github.com/sells-group/budget-cli/internal/model"
)

func TestRunArea_Classify(t *testing.T) {
	resetFlags(t)
	useConfig(t, "http://127.0.0.1:1")
	areaFormat = formatJSON

	var buf bytes.Buffer
	require.NoError(t, runArea(&buf, []string{"10003"}))

	var got area.Classification
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "10003", got.ZipCode)
	assert.True(t, got.IsHCOL)
	assert.Equal(t, model.TierHCOL, got.Tier)
}

func TestRunArea_CityOnly(t *testing.T) {
	resetFlags(t)
	useConfig(t, "http://127.0.0.1:1")
	areaCity = "San Francisco"

	var buf bytes.Buffer
	require.NoError(t, runArea(&buf, nil))
	assert.Contains(t, buf.String(), "High cost of living")
	assert.Contains(t, buf.String(), "yes")
}

func TestRunArea_Metros(t *testing.T) {
	resetFlags(t)
	useConfig(t, "http://127.0.0.1:1")
	areaMetros = true
	areaFormat = formatJSON

	var buf bytes.Buffer
	require.NoError(t, runArea(&buf, nil))

	var all []area.Metro
	require.NoError(t, json.Unmarshal(buf.Bytes(), &all))
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].AverageRent, all[i].AverageRent)
	}

	areaHighRent = true
	buf.Reset()
	require.NoError(t, runArea(&buf, nil))

	var high []area.Metro
	require.NoError(t, json.Unmarshal(buf.Bytes(), &high))
	assert.LessOrEqual(t, len(high), len(all))
	for _, m := range high {
		assert.GreaterOrEqual(t, m.RentPercentile, float64(area.HighRentPercentile))
	}
}

func TestRunArea_NeedsInput(t *testing.T) {
	resetFlags(t)
	useConfig(t, "http://127.0.0.1:1")

	assert.Error(t, runArea(&bytes.Buffer{}, nil))
}

func TestRunArea_BadTablePath(t *testing.T) {
	resetFlags(t)
	c := useConfig(t, "http://127.0.0.1:1")
	c.Area.TablePath = "/does/not/exist.yaml"

	assert.ErrorContains(t, runArea(&bytes.Buffer{}, []string{"10003"}), "load area table")
}

func TestRunCompare(t *testing.T) {
	resetFlags(t)
	stub := newCensusStub(t)
	useConfig(t, stub.URL)
	compareIncome = "5000"
	compareHousing = "1500"
	compareFormat = formatJSON

	var buf bytes.Buffer
	require.NoError(t, runCompare(context.Background(), &buf, "94105"))

	var got model.NeighborhoodComparison
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "94105", got.ZipCode)
	assert.InDelta(t, 30, got.UserHousingPercentage, 1e-9)
	assert.InDelta(t, 2470, got.AreaHousingCost, 1e-9)
	assert.InDelta(t, -970, got.HousingDifference, 1e-9)
}

func TestRunCompare_BadIncome(t *testing.T) {
	resetFlags(t)
	useConfig(t, "http://127.0.0.1:1")

	compareIncome = "0"
	assert.ErrorContains(t, runCompare(context.Background(), &bytes.Buffer{}, "94105"), "positive")

	compareIncome = "abc"
	assert.ErrorContains(t, runCompare(context.Background(), &bytes.Buffer{}, "94105"), "--income")
}
