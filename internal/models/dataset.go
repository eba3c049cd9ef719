package models

// Item is a single collected record. The upstream payloads are loosely
// structured JSON:API documents, so records stay schemaless.
type Item = map[string]any

// Dataset holds everything one collection run produced, keyed the way the
// export file lays it out.
type Dataset struct {
	Overview                  Item   `json:"overview"`
	MegaProjects              []Item `json:"mega_projects"`
	ProjectsUnderConstruction []Item `json:"projects_under_construction"`
	ProjectsReadymade         []Item `json:"projects_readymade"`
	MarketUnitBuy             []Item `json:"market_unit_buy"`
	MarketLandsBuy            []Item `json:"market_lands_buy"`
	MarketUnitRent            []Item `json:"market_unit_rent"`
}

func NewDataset() *Dataset {
	return &Dataset{
		Overview:                  Item{},
		MegaProjects:              []Item{},
		ProjectsUnderConstruction: []Item{},
		ProjectsReadymade:         []Item{},
		MarketUnitBuy:             []Item{},
		MarketLandsBuy:            []Item{},
		MarketUnitRent:            []Item{},
	}
}

// Empty reports whether the run produced nothing at all.
func (d *Dataset) Empty() bool {
	return len(d.Overview) == 0 &&
		len(d.MegaProjects) == 0 &&
		len(d.ProjectsUnderConstruction) == 0 &&
		len(d.ProjectsReadymade) == 0 &&
		len(d.MarketUnitBuy) == 0 &&
		len(d.MarketLandsBuy) == 0 &&
		len(d.MarketUnitRent) == 0
}

// Counts summarizes a dataset for the run report.
type Counts struct {
	MegaProjects            int
	UnderConstruction       int
	UnderConstructionUnits  int
	Readymade               int
	ReadymadeUnits          int
	MarketUnitBuy           int
	MarketLandsBuy          int
	MarketUnitRent          int
}

func (d *Dataset) Counts() Counts {
	return Counts{
		MegaProjects:           len(d.MegaProjects),
		UnderConstruction:      len(d.ProjectsUnderConstruction),
		UnderConstructionUnits: totalUnits(d.ProjectsUnderConstruction),
		Readymade:              len(d.ProjectsReadymade),
		ReadymadeUnits:         totalUnits(d.ProjectsReadymade),
		MarketUnitBuy:          len(d.MarketUnitBuy),
		MarketLandsBuy:         len(d.MarketLandsBuy),
		MarketUnitRent:         len(d.MarketUnitRent),
	}
}

func totalUnits(projects []Item) int {
	total := 0
	for _, project := range projects {
		units, ok := project["available_units"].([]Item)
		if ok {
			total += len(units)
			continue
		}
		if raw, ok := project["available_units"].([]any); ok {
			total += len(raw)
		}
	}
	return total
}
