package strategy

import (
	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/domain/query"
)

type PeopleStrategy struct{}

// Generate gives every person a section with their tile and, when they have one,
// the tile of their first device tracker. The tracker tile only shows while the
// person itself has no usable state.
func (s *PeopleStrategy) Generate(in Input) model.View {
	view := header(in.Spec)
	view.Type = "sections"
	view.MaxColumns = 3
	view.Badges = []model.Badge{AlertBadge()}

	people := query.ByProperties(in.Merged, map[string]any{"domain": "person"})
	for _, person := range people {
		cards := []model.Card{tileCard(person.EntityID())}
		if tracker := firstTracker(person); tracker != "" {
			cards = append(cards, model.Card{
				"type":       "tile",
				"entity":     tracker,
				"visibility": []any{VisibilityIsUnknownUnavailable(person.EntityID())},
			})
		}
		view.Sections = appendGrid(view.Sections, NewGrid(cards, 0))
	}
	return view
}

func firstTracker(person model.Record) string {
	trackers, _ := person.Attributes()["device_trackers"].([]any)
	if len(trackers) == 0 {
		return ""
	}
	id, _ := trackers[0].(string)
	return id
}
