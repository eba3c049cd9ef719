package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jimezsa/sakani/internal/models"
)

func sampleDataset() *models.Dataset {
	dataset := models.NewDataset()
	dataset.Overview = models.Item{"total_projects": float64(12)}
	dataset.ProjectsReadymade = []models.Item{
		{
			"project_id":      "55",
			"project_name":    "North Gate",
			"location":        map[string]any{"latitude": 24.7, "longitude": 46.6},
			"available_units": []models.Item{},
		},
	}
	return dataset
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		value string
		want  Format
	}{
		{"json", FormatJSON},
		{"", FormatJSON},
		{"GeoJSON", FormatGeoJSON},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.value)
		if err != nil {
			t.Fatalf("ParseFormat(%q) error = %v", tc.value, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}

	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestWriteDatasetJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, sampleDataset(), FormatJSON); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"overview", "mega_projects", "projects_readymade", "market_unit_rent"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("output missing category %q", key)
		}
	}
}

func TestWriteDatasetGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, sampleDataset(), FormatGeoJSON); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	readymade, ok := decoded["projects_readymade"].(map[string]any)
	if !ok {
		t.Fatalf("projects_readymade missing: %v", decoded)
	}
	if readymade["type"] != "FeatureCollection" {
		t.Fatalf("type = %v", readymade["type"])
	}
	if _, ok := decoded["market_unit_rent"]; ok {
		t.Fatalf("empty categories should be omitted from GeoJSON output")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleDataset(), SummaryOptions{}); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "projects_readymade") {
		t.Fatalf("summary missing category: %s", out)
	}
	if !strings.Contains(out, "category") {
		t.Fatalf("summary missing header: %s", out)
	}
}
