package models

import "strings"

const (
	CategoryOverview          = "overview"
	CategoryMegaProjects      = "mega_projects"
	CategoryUnderConstruction = "projects_under_construction"
	CategoryReadymade         = "projects_readymade"
	CategoryMarketUnitBuy     = "market_unit_buy"
	CategoryMarketLandsBuy    = "market_lands_buy"
	CategoryMarketUnitRent    = "market_unit_rent"
)

func AllCategories() []string {
	return []string{
		CategoryOverview,
		CategoryMegaProjects,
		CategoryUnderConstruction,
		CategoryReadymade,
		CategoryMarketUnitBuy,
		CategoryMarketLandsBuy,
		CategoryMarketUnitRent,
	}
}

// NormalizeCategories lowercases, trims, and drops empty entries.
func NormalizeCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, category := range categories {
		category = strings.ToLower(strings.TrimSpace(category))
		if category == "" {
			continue
		}
		out = append(out, category)
	}
	return out
}

// KnownCategory reports whether name is one of the collection categories.
func KnownCategory(name string) bool {
	for _, category := range AllCategories() {
		if category == name {
			return true
		}
	}
	return false
}
