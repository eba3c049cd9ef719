package sakani

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestMarketUnitIDsStripsPrefix(t *testing.T) {
	payload := map[string]any{
		"data": []any{
			map[string]any{"id": "market_unit_9001"},
			map[string]any{"id": "project_77"},
			map[string]any{"id": "market_unit_9002"},
		},
	}

	got := marketUnitIDs(payload)
	want := []string{"9001", "9002"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("marketUnitIDs() = %v, want %v", got, want)
	}
}

func TestMarketUnitIDsEmptyPayload(t *testing.T) {
	if got := marketUnitIDs(nil); got != nil {
		t.Fatalf("expected nil for empty payload, got %v", got)
	}
	if got := marketUnitIDs(map[string]any{"data": []any{}}); got != nil {
		t.Fatalf("expected nil for empty data, got %v", got)
	}
}

func TestDataAttributes(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{"total_units": float64(42)},
		},
	}
	attrs := dataAttributes(payload)
	if attrs["total_units"] != float64(42) {
		t.Fatalf("dataAttributes() = %v", attrs)
	}

	if got := dataAttributes(nil); len(got) != 0 {
		t.Fatalf("nil payload should yield empty attributes")
	}
}

func TestAttributesList(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"price_trends_data": []any{map[string]any{"month": "2025-01"}},
			},
		},
	}
	if got := attributesList(payload, "price_trends_data"); len(got) != 1 {
		t.Fatalf("attributesList() = %v", got)
	}
	if got := attributesList(payload, "missing"); got != nil {
		t.Fatalf("missing key should yield nil, got %v", got)
	}
}

func TestStringValueCoercion(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{"  spaced  ", "spaced"},
		{float64(12), "12"},
		{float64(12.5), "12.5"},
		{7, "7"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := stringValue(tc.value); got != tc.want {
			t.Fatalf("stringValue(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
