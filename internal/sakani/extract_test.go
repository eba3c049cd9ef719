package sakani

import (
	"encoding/json"
	"testing"

	"github.com/jimezsa/sakani/internal/models"
)

const projectDocument = `{
  "data": {
    "id": "1234",
    "attributes": {
      "code": "PRJ-1234",
      "name": "Al Nawras",
      "status": "active",
      "location": {"latitude": "24.7136", "longitude": "46.6753"},
      "price_starting_at": 450000,
      "media": {
        "banner": {"attributes": {"url": "https://cdn.sakani.sa/banner.jpg"}},
        "gallery": [
          {"attributes": {"url": "https://cdn.sakani.sa/g1.jpg"}},
          {"attributes": {"url": "https://cdn.sakani.sa/g2.jpg"}}
        ],
        "geo_map": {"attributes": {"url": ""}},
        "geo_map_polygons": {"attributes": {"url": "https://cdn.sakani.sa/poly.json"}},
        "brochure": {"attributes": {"url": "https://cdn.sakani.sa/b.pdf"}},
        "master_plan": {"attributes": {"url": ""}}
      }
    }
  },
  "included": [
    {"type": "developers", "attributes": {"name": "Dev Co"}},
    {"type": "project_unit_types", "attributes": {"unit_type": "apartment"}},
    {"type": "project_unit_types", "attributes": {"unit_type": "villa"}}
  ]
}`

func decodeDocument(t *testing.T, raw string) models.Item {
	t.Helper()
	var payload models.Item
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return payload
}

func TestExtractorProjectData(t *testing.T) {
	extractor := NewExtractor(nil, nopLogger())
	got := extractor.ProjectData(decodeDocument(t, projectDocument))

	if got["project_id"] != "1234" {
		t.Fatalf("project_id = %v", got["project_id"])
	}
	if got["project_code"] != "PRJ-1234" {
		t.Fatalf("project_code = %v", got["project_code"])
	}
	if got["project_name"] != "Al Nawras" {
		t.Fatalf("project_name = %v", got["project_name"])
	}
	if got["status"] != "active" {
		t.Fatalf("status = %v", got["status"])
	}
	// Absent attributes export as empty strings.
	if got["phase"] != "" {
		t.Fatalf("phase = %v, want empty", got["phase"])
	}

	unitTypes, ok := got["project_unit_types"].([]any)
	if !ok || len(unitTypes) != 2 {
		t.Fatalf("project_unit_types = %v", got["project_unit_types"])
	}
}

func TestExtractMedia(t *testing.T) {
	payload := decodeDocument(t, projectDocument)
	attributes := asMap(mapValue(payload["data"], "attributes"))
	media := extractMedia(asMap(attributes["media"]))

	if media["banner"] != "https://cdn.sakani.sa/banner.jpg" {
		t.Fatalf("banner = %v", media["banner"])
	}
	gallery, ok := media["gallery"].([]any)
	if !ok || len(gallery) != 2 {
		t.Fatalf("gallery = %v", media["gallery"])
	}
	if media["geo_map"] != nil {
		t.Fatalf("empty geo_map should be nil, got %v", media["geo_map"])
	}
	if media["geo_map_polygons"] != "https://cdn.sakani.sa/poly.json" {
		t.Fatalf("geo_map_polygons = %v", media["geo_map_polygons"])
	}
}

func TestProjectUnitTypesSkipsFirstInclude(t *testing.T) {
	if got := projectUnitTypes(nil); len(got) != 0 {
		t.Fatalf("expected empty slice for nil includes")
	}

	included := []any{
		map[string]any{"attributes": map[string]any{"name": "Dev Co"}},
	}
	if got := projectUnitTypes(included); len(got) != 0 {
		t.Fatalf("single include should yield nothing, got %v", got)
	}
}
