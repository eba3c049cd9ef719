package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/jimezsa/sakani/internal/geo"
	"github.com/jimezsa/sakani/internal/models"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatGeoJSON Format = "geojson"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json", "":
		return FormatJSON, nil
	case "geojson":
		return FormatGeoJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

// WriteDataset writes a collected dataset. JSON keeps the raw category
// layout; GeoJSON emits one FeatureCollection per non-empty category.
func WriteDataset(w io.Writer, dataset *models.Dataset, format Format) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	switch format {
	case FormatGeoJSON:
		return enc.Encode(geo.TransformAll(dataset))
	default:
		return enc.Encode(dataset)
	}
}

// WriteFile writes the dataset to path, creating or truncating it.
func WriteFile(path string, dataset *models.Dataset, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteDataset(file, dataset, format); err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	return nil
}

type SummaryOptions struct {
	ColorEnabled bool
}

// WriteSummary renders the per-category run report as a table.
func WriteSummary(w io.Writer, dataset *models.Dataset, opts SummaryOptions) error {
	counts := dataset.Counts()
	output := termenv.NewOutput(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "category\titems\tunits")

	rows := []struct {
		category string
		items    int
		units    int
	}{
		{models.CategoryMegaProjects, counts.MegaProjects, 0},
		{models.CategoryUnderConstruction, counts.UnderConstruction, counts.UnderConstructionUnits},
		{models.CategoryReadymade, counts.Readymade, counts.ReadymadeUnits},
		{models.CategoryMarketUnitBuy, counts.MarketUnitBuy, 0},
		{models.CategoryMarketLandsBuy, counts.MarketLandsBuy, 0},
		{models.CategoryMarketUnitRent, counts.MarketUnitRent, 0},
	}

	for _, row := range rows {
		items := strconv.Itoa(row.items)
		if opts.ColorEnabled && row.items > 0 {
			items = output.String(items).Foreground(output.Color("2")).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", row.category, items, row.units)
	}

	return tw.Flush()
}
