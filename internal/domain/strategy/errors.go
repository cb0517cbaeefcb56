package strategy

import "magic-dashboard/internal/domain/model"

type errorSection struct {
	name     string
	icon     string
	include  []any
	exclude  []any
	sortBy   string
	infoHash string
	info     string
}

var errorSections = []errorSection{
	{
		name:     "Errors",
		icon:     "mdi:alert-octagram-outline",
		include:  []any{map[string]any{"entity_id": "*error*"}},
		exclude:  []any{stateIs("idle"), stateIs("off"), stateIs("none"), stateIs("ok")},
		infoHash: "#info-errors",
		info:     "Any entities whose entity id indicates it represents an error. Those which are in a normal state such as `idle`, `off`, or `none` will not be displayed.",
	},
	{
		name:    "Unknown",
		icon:    "mdi:progress-question",
		include: []any{stateIs("unknown")},
		exclude: []any{
			map[string]any{"entity_id": "^scene\\.*"},
			map[string]any{"entity_id": "^button\\.*"},
			map[string]any{"entity_id": "^input_button\\.*"},
			map[string]any{"entity_id": "^sensor\\.discord_user_.*\\D.*"},
			map[string]any{"integration": "waze_travel_time"},
		},
		sortBy:   "entity_id",
		infoHash: "#info-unknown",
		info:     "Any entity whose state is currently `unknown`. This excludes some types which are always `unknown` such as `scene`, `button`, and `input_button`.",
	},
	{
		name:     "Unavailable",
		icon:     "mdi:help-circle",
		include:  []any{stateIs("unavailable")},
		sortBy:   "entity_id",
		infoHash: "#info-unavailable",
		info:     "Any entity whose state is currently `unavailable`. You should review these and determine if they should be deleted or otherwise determine how to start obtaining their state.",
	},
	{
		name:     "Alerts",
		icon:     "mdi:alert-outline",
		include:  []any{map[string]any{"entity_id": "^alert\\.*"}},
		sortBy:   "state",
		infoHash: "#info-alerts",
		info:     "Any alert entity regardless of status.",
	},
}

func stateIs(state string) map[string]any {
	return map[string]any{"state": state}
}

type ErrorStrategy struct{}

// Generate builds one auto-entities section per error category. The host filters
// entities at render time, so the merged map is not consulted.
func (s *ErrorStrategy) Generate(in Input) model.View {
	view := header(in.Spec)
	view.Type = "sections"
	view.MaxColumns = 4
	view.DenseSectionPlacement = true
	view.Badges = []model.Badge{AlertBadge()}

	for _, es := range errorSections {
		view.Sections = appendGrid(view.Sections, NewGrid([]model.Card{es.card()}, 0))
	}
	return view
}

func (es errorSection) card() model.Card {
	exclude := es.exclude
	if exclude == nil {
		exclude = []any{}
	}
	auto := model.Card{
		"type":   "custom:auto-entities",
		"card":   map[string]any{"type": "entities", "title": es.name, "icon": es.icon},
		"filter": map[string]any{"include": es.include, "exclude": exclude},
	}
	if es.sortBy != "" {
		auto["sort"] = map[string]any{"method": es.sortBy}
	}
	return model.Card{
		"type": "vertical-stack",
		"cards": []any{
			auto,
			map[string]any{
				"type":        "custom:bubble-card",
				"card_type":   "pop-up",
				"hash":        es.infoHash,
				"name":        "",
				"show_header": false,
			},
			map[string]any{
				"type":    "markdown",
				"title":   es.name,
				"content": es.info,
			},
		},
	}
}
