package model

import (
	"encoding/json"
)

// Floor is an entry of the floor registry. Only used to order areas.
type Floor struct {
	FloorID string         `json:"floor_id"`
	Name    string         `json:"name"`
	Level   *int           `json:"level"`
	Icon    *string        `json:"icon"`
	Extra   map[string]any `json:"-"`
}

// Area is an entry of the area registry.
type Area struct {
	AreaID  string         `json:"area_id"`
	Name    string         `json:"name"`
	FloorID *string        `json:"floor_id"`
	Icon    *string        `json:"icon"`
	Extra   map[string]any `json:"-"`
}

// Device is an entry of the device registry.
type Device struct {
	ID           string         `json:"id"`
	AreaID       *string        `json:"area_id"`
	Manufacturer *string        `json:"manufacturer"`
	Model        *string        `json:"model"`
	Name         *string        `json:"name"`
	NameByUser   *string        `json:"name_by_user"`
	Extra        map[string]any `json:"-"`
}

// EntityEntry is an entry of the entity registry.
type EntityEntry struct {
	EntityID     string         `json:"entity_id"`
	DeviceID     *string        `json:"device_id"`
	AreaID       *string        `json:"area_id"`
	Platform     string         `json:"platform"`
	DisabledBy   *string        `json:"disabled_by"`
	HiddenBy     *string        `json:"hidden_by"`
	Name         *string        `json:"name"`
	OriginalName *string        `json:"original_name"`
	Icon         *string        `json:"icon"`
	Extra        map[string]any `json:"-"`
}

// State is the live state of one entity.
type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged string         `json:"last_changed,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
	Extra       map[string]any `json:"-"`
}

// User is the account the provider authenticated as.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// Snapshot is everything one generation cycle reads from the host.
type Snapshot struct {
	Floors   []Floor
	Areas    []Area
	Devices  []Device
	Entities []EntityEntry
	States   map[string]State
	User     *User
}

// DeviceRef returns the device id a state carries on its own, checking the
// top-level device_id field and then attributes.device_id.
func (s State) DeviceRef() string {
	if id, ok := s.Extra["device_id"].(string); ok && id != "" {
		return id
	}
	id, _ := s.Attributes["device_id"].(string)
	return id
}

func (f Floor) Record() Record {
	r := Record(f.Extra).Clone()
	r["floor_id"] = optionalString(f.FloorID)
	r["name"] = optionalString(f.Name)
	if f.Level != nil {
		r["level"] = *f.Level
	} else {
		r["level"] = nil
	}
	r["icon"] = optional(f.Icon)
	return r
}

func (a Area) Record() Record {
	r := Record(a.Extra).Clone()
	r["area_id"] = optionalString(a.AreaID)
	r["name"] = optionalString(a.Name)
	r["floor_id"] = optional(a.FloorID)
	r["icon"] = optional(a.Icon)
	return r
}

func (d Device) Record() Record {
	r := Record(d.Extra).Clone()
	r["id"] = optionalString(d.ID)
	r["area_id"] = optional(d.AreaID)
	r["manufacturer"] = optional(d.Manufacturer)
	r["model"] = optional(d.Model)
	r["name"] = optional(d.Name)
	r["name_by_user"] = optional(d.NameByUser)
	return r
}

func (e EntityEntry) Record() Record {
	r := Record(e.Extra).Clone()
	r["entity_id"] = optionalString(e.EntityID)
	r["device_id"] = optional(e.DeviceID)
	r["area_id"] = optional(e.AreaID)
	r["platform"] = optionalString(e.Platform)
	r["disabled_by"] = optional(e.DisabledBy)
	r["hidden_by"] = optional(e.HiddenBy)
	r["name"] = optional(e.Name)
	r["original_name"] = optional(e.OriginalName)
	r["icon"] = optional(e.Icon)
	return r
}

func (s State) Record() Record {
	r := Record(s.Extra).Clone()
	r["entity_id"] = optionalString(s.EntityID)
	r["state"] = optionalString(s.State)
	attrs := s.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	r["attributes"] = attrs
	r["last_changed"] = optionalString(s.LastChanged)
	r["last_updated"] = optionalString(s.LastUpdated)
	return r
}

func (f *Floor) UnmarshalJSON(data []byte) error {
	type alias Floor
	extra, err := decodeWithExtra(data, (*alias)(f), "floor_id", "name", "level", "icon")
	f.Extra = extra
	return err
}

func (a *Area) UnmarshalJSON(data []byte) error {
	type alias Area
	extra, err := decodeWithExtra(data, (*alias)(a), "area_id", "name", "floor_id", "icon")
	a.Extra = extra
	return err
}

func (d *Device) UnmarshalJSON(data []byte) error {
	type alias Device
	extra, err := decodeWithExtra(data, (*alias)(d), "id", "area_id", "manufacturer", "model", "name", "name_by_user")
	d.Extra = extra
	return err
}

func (e *EntityEntry) UnmarshalJSON(data []byte) error {
	type alias EntityEntry
	extra, err := decodeWithExtra(data, (*alias)(e), "entity_id", "device_id", "area_id", "platform",
		"disabled_by", "hidden_by", "name", "original_name", "icon")
	e.Extra = extra
	return err
}

func (s *State) UnmarshalJSON(data []byte) error {
	type alias State
	extra, err := decodeWithExtra(data, (*alias)(s), "entity_id", "state", "attributes", "last_changed", "last_updated")
	s.Extra = extra
	return err
}

// decodeWithExtra fills target from data and returns every field not named in known.
func decodeWithExtra(data []byte, target any, known ...string) (map[string]any, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// optionalString flattens a string field that was absent or empty to nil, so it
// never overwrites a value from an earlier merge layer.
func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
