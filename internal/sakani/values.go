package sakani

import (
	"fmt"
	"strconv"
	"strings"
)

// Helpers for navigating the loosely typed JSON:API documents the Sakani
// services return.

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func asMap(value any) map[string]any {
	m, ok := value.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func asSlice(value any) []any {
	s, ok := value.([]any)
	if !ok {
		return nil
	}
	return s
}

// dataAttributes unwraps the data.attributes envelope.
func dataAttributes(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	return asMap(mapValue(payload["data"], "attributes"))
}

// dataList unwraps a data array envelope.
func dataList(payload map[string]any) []any {
	if payload == nil {
		return nil
	}
	return asSlice(payload["data"])
}

// attributesList unwraps data.attributes.<key> into a list.
func attributesList(payload map[string]any, key string) []any {
	return asSlice(dataAttributes(payload)[key])
}
