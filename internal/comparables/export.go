package comparables

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"Account", "Score", "Address", "Market Value", "Building Area", "Land Area",
	"PPSF", "Year", "Bedrooms", "Bathrooms", "Stories", "Pool", "Garage",
	"Distance (mi)", "Amenities",
}

// WriteCSV streams the comparable set as CSV in the export column order the
// protest paperwork expects. Unknown fields are left blank.
func WriteCSV(w io.Writer, result *MatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range result.Comps {
		row := []string{
			c.Account,
			strconv.FormatFloat(c.Score, 'f', 2, 64),
			strings.TrimSpace(c.Address + " " + c.PostalCode),
			floatField(c.MarketValue),
			floatField(c.BuildingArea),
			floatField(c.LandArea),
			floatField(c.PricePerSqft),
			intField(c.BuildYear),
			floatField(c.Bedrooms),
			floatField(c.Bathrooms),
			intField(c.Stories),
			boolField(c.HasPool),
			boolField(c.HasGarage),
			floatField(c.DistanceMiles),
			c.Amenities,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names the download after the subject, the accepted tier and
// the moment of export.
func ExportFilename(result *MatchResult, now time.Time) string {
	tier := result.Meta.GeoTier
	if tier == "" {
		tier = "geo"
	}
	return fmt.Sprintf("comparables_%s_%s_%s.csv",
		result.Subject.Account, tier, now.Format("20060102_150405"))
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolField(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "1"
	}
	return "0"
}
