package strategy

import (
	"sort"

	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/domain/query"
)

const areaMaxColumns = 4

// Domains that get their own grid and are left out of the per-domain lists.
var areaOwnGrids = map[string]bool{
	"fan":    true,
	"person": true,
}

type AreaStrategy struct{}

func (s *AreaStrategy) Generate(in Input) model.View {
	view := header(in.Spec)
	view.Type = "sections"
	view.MaxColumns = areaMaxColumns
	view.Badges = []model.Badge{AlertBadge()}

	if in.Spec.Area == nil {
		return view
	}
	areaID := in.Spec.Area.AreaID

	// area pseudo-entities carry area_id too
	areaEntities := query.ByArea(query.ExcludeAreas(in.Merged), areaID, false)

	var sections []model.Section
	sections = appendGrid(sections, NewGrid([]model.Card{
		areaHeading(in.Spec.Area, areaEntities),
	}, areaMaxColumns))
	sections = appendGrid(sections, fanGrid(in.Merged, areaID))
	sections = appendGrid(sections, climateGrid(areaEntities))
	for _, grid := range domainGrids(areaEntities) {
		sections = appendGrid(sections, grid)
	}
	view.Sections = sections
	return view
}

// areaHeading titles the view and shows the Magic Areas state sensor as a badge
// when the area has one.
func areaHeading(area *model.Area, areaEntities model.Records) model.Card {
	card := model.Card{
		"type":    "heading",
		"heading": area.Name,
	}
	if area.Icon != nil {
		card["icon"] = *area.Icon
	}

	occupancy := query.ByProperties(areaEntities, map[string]any{
		"domain":                  "binary_sensor",
		"platform":                "magic_areas",
		"attributes.device_class": "occupancy",
	})
	for _, rec := range occupancy {
		// the area state sensor is the one with a type attribute
		if _, ok := rec.Attributes()["type"]; !ok {
			continue
		}
		card["badges"] = []any{map[string]any{
			"type":   "entity",
			"entity": rec.EntityID(),
		}}
		break
	}
	return card
}

func fanGrid(merged model.MergedEntityMap, areaID string) *model.Section {
	fans := query.ByArea(query.ByDomainPrefix(merged, "fan"), areaID, false)
	cards := make([]model.Card, 0, len(fans))
	for _, fan := range fans {
		cards = append(cards, tileCard(fan.EntityID()))
	}
	return NewGrid(cards, 0)
}

func climateGrid(areaEntities model.Records) *model.Section {
	var cards []model.Card
	for _, class := range []string{"temperature", "humidity", "carbon_dioxide"} {
		sensors := query.ByProperties(areaEntities, map[string]any{
			"domain":                  "sensor",
			"attributes.device_class": class,
		})
		for _, rec := range sensors {
			cards = append(cards, tileCard(rec.EntityID()))
		}
	}
	for _, rec := range query.ByProperties(areaEntities, map[string]any{"domain": "climate"}) {
		cards = append(cards, model.Card{"type": "thermostat", "entity": rec.EntityID()})
	}
	return NewGrid(cards, 0)
}

// domainGrids lists the remaining visible entities grouped by domain.
func domainGrids(areaEntities model.Records) []*model.Section {
	byDomain := map[string][]string{}
	for _, rec := range areaEntities {
		domain := rec.String("domain")
		if areaOwnGrids[domain] || isClimate(rec) {
			continue
		}
		byDomain[domain] = append(byDomain[domain], rec.EntityID())
	}

	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	grids := make([]*model.Section, 0, len(domains))
	for _, d := range domains {
		grids = append(grids, NewGrid([]model.Card{entitiesCard(d, byDomain[d])}, 0))
	}
	return grids
}

func isClimate(rec model.Record) bool {
	switch rec.String("domain") {
	case "climate":
		return true
	case "sensor":
		switch rec.Attributes()["device_class"] {
		case "temperature", "humidity", "carbon_dioxide":
			return true
		}
	}
	return false
}
