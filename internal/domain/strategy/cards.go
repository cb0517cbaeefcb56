package strategy

import (
	"fmt"

	"magic-dashboard/internal/domain/model"
)

// tabletWidth is the smallest screen width, in pixels, that is not a phone.
const tabletWidth = 768

// NewGrid wraps cards in a grid section. Nil cards are dropped and nil is returned
// when nothing is left.
func NewGrid(cards []model.Card, columnSpan int) *model.Section {
	kept := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if c != nil {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	grid := &model.Section{Type: "grid", Cards: kept}
	if columnSpan > 0 {
		grid.ColumnSpan = columnSpan
	}
	return grid
}

// appendGrid appends the grid when it is not nil.
func appendGrid(sections []model.Section, grid *model.Section) []model.Section {
	if grid == nil {
		return sections
	}
	return append(sections, *grid)
}

// AlertBadge lists every alert entity that is on.
func AlertBadge() model.Badge {
	return model.Badge{
		"type": "custom:auto-entities",
		"filter": map[string]any{
			"include": []any{
				map[string]any{
					"domain": "alert",
					"state":  "on",
					"options": map[string]any{
						"type":         "entity",
						"content_info": "name",
						"icon_color":   "red",
					},
				},
			},
			"exclude": []any{},
		},
		"show_empty": true,
		"card_param": "chips",
		"card": map[string]any{
			"type":      "custom:mushroom-chips-card",
			"alignment": "center",
		},
		"grid_options": map[string]any{"columns": "full"},
		"column_span":  12,
	}
}

// HideOnMobile is a visibility condition matching tablet widths and up.
func HideOnMobile() map[string]any {
	return map[string]any{
		"condition":   "screen",
		"media_query": fmt.Sprintf("(min-width: %dpx)", tabletWidth),
	}
}

// VisibilityNotUnknownUnavailable shows a card only while entityID has a real state.
func VisibilityNotUnknownUnavailable(entityID string) map[string]any {
	return map[string]any{
		"condition": "and",
		"conditions": []any{
			map[string]any{"condition": "state", "entity": entityID, "state_not": "unknown"},
			map[string]any{"condition": "state", "entity": entityID, "state_not": "unavailable"},
		},
	}
}

// VisibilityIsUnknownUnavailable shows a card only while entityID has no real state.
func VisibilityIsUnknownUnavailable(entityID string) map[string]any {
	return map[string]any{
		"condition": "or",
		"conditions": []any{
			map[string]any{"condition": "state", "entity": entityID, "state": "unknown"},
			map[string]any{"condition": "state", "entity": entityID, "state": "unavailable"},
		},
	}
}

func tileCard(entityID string) model.Card {
	return model.Card{
		"type":       "tile",
		"entity":     entityID,
		"visibility": []any{VisibilityNotUnknownUnavailable(entityID)},
	}
}

func entitiesCard(title string, entityIDs []string) model.Card {
	if len(entityIDs) == 0 {
		return nil
	}
	entities := make([]any, 0, len(entityIDs))
	for _, id := range entityIDs {
		entities = append(entities, id)
	}
	return model.Card{
		"type":     "entities",
		"title":    title,
		"entities": entities,
	}
}
