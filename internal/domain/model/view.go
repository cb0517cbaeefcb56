package model

// Card is one card configuration. Its schema belongs to the card renderer, so it
// stays an open map.
type Card map[string]any

// Badge shares the open shape of cards.
type Badge = Card

// Section is a grid of cards inside a sections view.
type Section struct {
	Type       string `json:"type" yaml:"type"`
	ColumnSpan int    `json:"column_span,omitempty" yaml:"column_span,omitempty"`
	Cards      []Card `json:"cards" yaml:"cards"`
}

// View is one dashboard view.
type View struct {
	Title                 string    `json:"title" yaml:"title"`
	Path                  string    `json:"path" yaml:"path"`
	Icon                  string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Type                  string    `json:"type,omitempty" yaml:"type,omitempty"`
	MaxColumns            int       `json:"max_columns,omitempty" yaml:"max_columns,omitempty"`
	DenseSectionPlacement bool      `json:"dense_section_placement,omitempty" yaml:"dense_section_placement,omitempty"`
	Badges                []Badge   `json:"badges,omitempty" yaml:"badges,omitempty"`
	Sections              []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	Cards                 []Card    `json:"cards,omitempty" yaml:"cards,omitempty"`
}

// Dashboard is the generated document.
type Dashboard struct {
	Views []View `json:"views" yaml:"views"`
}
