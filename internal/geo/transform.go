// Package geo turns collected datasets into GeoJSON FeatureCollections.
package geo

import (
	"strconv"
	"strings"

	"github.com/jimezsa/sakani/internal/models"
)

type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type Feature struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	Geometry   *Geometry   `json:"geometry"`
	Properties models.Item `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func newCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// MegaProjects maps mega project records. A polygonal geo_shape wins over
// the point location; records without either carry a null geometry.
func MegaProjects(projects []models.Item) FeatureCollection {
	features := make([]Feature, 0, len(projects))

	for _, project := range projects {
		id, _ := project["id"].(string)
		attributes := itemValue(project["attributes"])

		geometry := polygonFromGeoShape(attributes["geo_shape"])
		if geometry == nil {
			geometry = pointFromLocation(attributes["location"])
		}

		features = append(features, Feature{
			Type:       "Feature",
			ID:         "mega_project_" + id,
			Geometry:   geometry,
			Properties: attributes,
		})
	}

	return newCollection(features)
}

// Projects emits one feature per project followed by one feature per
// available unit, with units linked back to their project.
func Projects(projects []models.Item) FeatureCollection {
	var projectFeatures []Feature
	var unitFeatures []Feature

	for _, project := range projects {
		projectID, _ := project["project_id"].(string)
		projectLocation := project["location"]

		projectFeatures = append(projectFeatures, projectFeature(project, projectID))

		for _, raw := range unitsOf(project["available_units"]) {
			unitFeatures = append(unitFeatures, unitFeature(raw, projectID, projectLocation))
		}
	}

	return newCollection(append(projectFeatures, unitFeatures...))
}

// MarketUnits locates records via their advertisement license.
func MarketUnits(units []models.Item) FeatureCollection {
	features := make([]Feature, 0, len(units))

	for _, unit := range units {
		unitID, _ := unit["unit_id"].(string)
		location := fieldOf(itemValue(unit["rega_ad_license"]), "location")

		features = append(features, Feature{
			Type:       "Feature",
			ID:         unitID,
			Geometry:   pointFromLocation(location),
			Properties: unit,
		})
	}

	return newCollection(features)
}

// TransformAll converts every non-empty category. The overview is carried
// as-is: it is marketplace-wide analytics with no geometry.
func TransformAll(dataset *models.Dataset) map[string]any {
	out := map[string]any{}

	if len(dataset.Overview) > 0 {
		out[models.CategoryOverview] = dataset.Overview
	}
	if len(dataset.MegaProjects) > 0 {
		out[models.CategoryMegaProjects] = MegaProjects(dataset.MegaProjects)
	}
	if len(dataset.ProjectsUnderConstruction) > 0 {
		out[models.CategoryUnderConstruction] = Projects(dataset.ProjectsUnderConstruction)
	}
	if len(dataset.ProjectsReadymade) > 0 {
		out[models.CategoryReadymade] = Projects(dataset.ProjectsReadymade)
	}
	if len(dataset.MarketUnitBuy) > 0 {
		out[models.CategoryMarketUnitBuy] = MarketUnits(dataset.MarketUnitBuy)
	}
	if len(dataset.MarketLandsBuy) > 0 {
		out[models.CategoryMarketLandsBuy] = MarketUnits(dataset.MarketLandsBuy)
	}
	if len(dataset.MarketUnitRent) > 0 {
		out[models.CategoryMarketUnitRent] = MarketUnits(dataset.MarketUnitRent)
	}

	return out
}

func projectFeature(project models.Item, projectID string) Feature {
	properties := models.Item{}
	for key, value := range project {
		if key == "available_units" {
			continue
		}
		properties[key] = value
	}

	return Feature{
		Type:       "Feature",
		ID:         "project_" + projectID,
		Geometry:   pointFromLocation(project["location"]),
		Properties: properties,
	}
}

func unitFeature(unit models.Item, projectID string, projectLocation any) Feature {
	unitID, _ := unit["id"].(string)
	attributes := itemValue(unit["attributes"])

	// Unit location wins; the project location is the fallback.
	geometry := pointFromLocation(attributes["location"])
	if geometry == nil {
		geometry = pointFromLocation(projectLocation)
	}

	properties := models.Item{
		"project_id": "project_" + projectID,
		"id":         unitID,
	}
	for key, value := range attributes {
		properties[key] = value
	}
	properties["unit_insights"] = unit["unit_insights"]
	properties["unit_project_trends"] = unit["unit_project_trends"]
	properties["unit_transactions"] = unit["unit_transactions"]

	return Feature{
		Type:       "Feature",
		ID:         "unit_" + unitID,
		Geometry:   geometry,
		Properties: properties,
	}
}

func pointFromLocation(location any) *Geometry {
	loc := itemValue(location)
	lat, latOK := coordinate(loc["latitude"])
	lng, lngOK := coordinate(loc["longitude"])
	if !latOK || !lngOK {
		return nil
	}
	return &Geometry{Type: "Point", Coordinates: []float64{lng, lat}}
}

func polygonFromGeoShape(geoShape any) *Geometry {
	shape, ok := geoShape.([]any)
	if !ok || len(shape) == 0 {
		return nil
	}
	return &Geometry{Type: "Polygon", Coordinates: shape}
}

// coordinate parses a latitude/longitude value. Zero and empty values are
// rejected; the services use them as placeholders for unknown locations.
func coordinate(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, v != 0
	case int:
		return float64(v), v != 0
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, parsed != 0
	default:
		return 0, false
	}
}

func itemValue(value any) models.Item {
	m, ok := value.(map[string]any)
	if !ok {
		return models.Item{}
	}
	return m
}

func fieldOf(item models.Item, key string) any {
	return item[key]
}

func unitsOf(value any) []models.Item {
	switch v := value.(type) {
	case []models.Item:
		return v
	case []any:
		out := make([]models.Item, 0, len(v))
		for _, item := range v {
			out = append(out, itemValue(item))
		}
		return out
	default:
		return nil
	}
}
