package comparables

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	result := &MatchResult{
		Subject: testSubject(),
		Comps: []*Comparable{
			{
				Account:       "200",
				Address:       "202 OAK ST",
				PostalCode:    "77002",
				MarketValue:   ptr(245000.0),
				BuildingArea:  ptr(1950.0),
				LandArea:      ptr(5900.0),
				PricePerSqft:  ptr(125.64),
				BuildYear:     ptr(2002),
				Bedrooms:      ptr(3.0),
				Bathrooms:     ptr(2.5),
				Stories:       ptr(1),
				HasPool:       ptr(false),
				HasGarage:     ptr(true),
				DistanceMiles: ptr(0.87),
				Amenities:     "deck",
				Score:         96.5,
			},
			{Account: "201", Address: "203 OAK ST", Score: 88.0},
		},
		Meta: &Meta{GeoTier: TierNeighborhood},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"200", "96.50", "202 OAK ST 77002", "245000", "1950", "5900",
		"125.64", "2002", "3", "2.5", "1", "0", "1", "0.87", "deck",
	}, rows[1])

	// unknown fields stay blank
	sparse := rows[2]
	assert.Equal(t, "201", sparse[0])
	assert.Equal(t, "88.00", sparse[1])
	assert.Equal(t, "", sparse[3])
	assert.Equal(t, "", sparse[11])
	assert.Equal(t, "", sparse[13])
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	result := &MatchResult{
		Subject: &Subject{Account: "1001"},
		Meta:    &Meta{GeoTier: TierRadius},
	}
	assert.Equal(t, "comparables_1001_radius_20250615_093000.csv", ExportFilename(result, now))

	result.Meta.GeoTier = ""
	assert.Equal(t, "comparables_1001_geo_20250615_093000.csv", ExportFilename(result, now))
}
