package sakani

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jimezsa/sakani/internal/models"
	"github.com/jimezsa/sakani/internal/network"
)

// projectAttributeKeys are the project attributes carried into the export,
// in the upstream document's own naming.
var projectAttributeKeys = []string{
	"code",
	"name",
	"publish_date",
	"region_obj",
	"city_obj",
	"phase",
	"status",
	"bookable",
	"location",
	"units_statistic_data",
	"subsidize_level",
	"price_starting_at",
	"realtime_available_units_count",
	"can_request_conveyance_on_project",
	"booking_fee",
	"booking_fee_setting_snapshot_values",
	"automatic_cancel_delay_in_days_value",
	"azm_item_status",
	"completion_percentage",
	"completion_percentage_updated_at",
	"units_available_soon",
	"extend_pq_fee",
	"extend_pq_day",
	"maximum_booking_per_non_beneficiary",
	"auto_cancellation",
	"booking_fee_payment_period",
	"unit_release_status",
	"mega_project_id",
	"nhc_related",
	"sale_contract_period_in_hours",
	"post_sale_contract_period_actions",
	"broker_allowed_channels",
	"allow_individual_brokers",
	"developer_name",
	"discount_enabled",
}

// renamedAttributeKeys map upstream attribute names to export field names.
var renamedAttributeKeys = map[string]string{
	"code": "project_code",
	"name": "project_name",
}

// Extractor flattens project documents into export records and resolves
// geo map media into GeoJSON features when asked to.
type Extractor struct {
	http   *network.Client
	logger zerolog.Logger
}

func NewExtractor(httpClient *network.Client, logger zerolog.Logger) *Extractor {
	return &Extractor{http: httpClient, logger: logger}
}

// ProjectData flattens a project details document.
func (e *Extractor) ProjectData(payload models.Item) models.Item {
	data := asMap(payload["data"])
	attributes := asMap(data["attributes"])

	extracted := models.Item{
		"project_id": stringValue(data["id"]),
	}
	for _, key := range projectAttributeKeys {
		field := key
		if renamed, ok := renamedAttributeKeys[key]; ok {
			field = renamed
		}
		value, ok := attributes[key]
		if !ok {
			value = ""
		}
		extracted[field] = value
	}

	extracted["media"] = extractMedia(asMap(attributes["media"]))
	extracted["project_unit_types"] = projectUnitTypes(asSlice(payload["included"]))

	return extracted
}

func extractMedia(media models.Item) models.Item {
	geoMapURL := mediaURL(media, "geo_map")
	geoMapPolygonsURL := mediaURL(media, "geo_map_polygons")

	gallery := []any{}
	for _, item := range asSlice(media["gallery"]) {
		gallery = append(gallery, stringValue(mapValue(mapValue(item, "attributes"), "url")))
	}

	out := models.Item{
		"banner":      mediaURL(media, "banner"),
		"gallery":     gallery,
		"brochure":    mediaURL(media, "brochure"),
		"master_plan": mediaURL(media, "master_plan"),
	}

	// Empty geo URLs export as null, not "".
	out["geo_map"] = nilIfEmpty(geoMapURL)
	out["geo_map_polygons"] = nilIfEmpty(geoMapPolygonsURL)
	return out
}

func mediaURL(media models.Item, key string) string {
	return stringValue(mapValue(mapValue(media[key], "attributes"), "url"))
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// projectUnitTypes returns the attributes of every included document after
// the first; index zero is the developer record.
func projectUnitTypes(included []any) []any {
	out := []any{}
	for i, item := range included {
		if i == 0 {
			continue
		}
		out = append(out, asMap(mapValue(item, "attributes")))
	}
	return out
}

// GeoJSONFeatures fetches a geo map media URL and returns its feature list.
// Failures are logged and swallowed: geo layers are best effort.
func (e *Extractor) GeoJSONFeatures(ctx context.Context, target string) []any {
	if target == "" {
		return nil
	}

	payload, err := e.http.GetJSON(ctx, target, nil, false)
	if err != nil {
		e.logger.Debug().Str("url", target).Err(err).Msg("failed to fetch geo features")
		return nil
	}
	return asSlice(payload["features"])
}
