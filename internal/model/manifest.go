package model

import (
	"encoding/json"
	"errors"
)

// Icon is one entry of a manifest's icons array.
type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes,omitempty"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// Manifest is a decoded web app manifest. Keys records which top-level
// members were present in the source document, including empty ones.
type Manifest struct {
	Name            string `json:"name,omitempty"`
	ShortName       string `json:"short_name,omitempty"`
	StartURL        string `json:"start_url,omitempty"`
	Display         string `json:"display,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	ThemeColor      string `json:"theme_color,omitempty"`
	Scope           string `json:"scope,omitempty"`
	Icons           []Icon `json:"icons,omitempty"`

	keys map[string]struct{}
}

// UnmarshalJSON decodes a manifest object and remembers its keys. Members
// are read one by one: a member of the wrong JSON type decodes as its zero
// value, so only that member counts as missing.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("manifest must be a JSON object")
	}
	*m = Manifest{
		Name:            stringMember(raw, "name"),
		ShortName:       stringMember(raw, "short_name"),
		StartURL:        stringMember(raw, "start_url"),
		Display:         stringMember(raw, "display"),
		BackgroundColor: stringMember(raw, "background_color"),
		ThemeColor:      stringMember(raw, "theme_color"),
		Scope:           stringMember(raw, "scope"),
		Icons:           iconsMember(raw["icons"]),
		keys:            make(map[string]struct{}, len(raw)),
	}
	for k := range raw {
		m.keys[k] = struct{}{}
	}
	return nil
}

func stringMember(raw map[string]json.RawMessage, key string) string {
	var s string
	if v, ok := raw[key]; ok {
		_ = json.Unmarshal(v, &s)
	}
	return s
}

// iconsMember keeps the object entries of an icons array; anything else in
// it is skipped.
func iconsMember(v json.RawMessage) []Icon {
	var entries []json.RawMessage
	if len(v) == 0 || json.Unmarshal(v, &entries) != nil {
		return nil
	}
	icons := make([]Icon, 0, len(entries))
	for _, e := range entries {
		var raw map[string]json.RawMessage
		if json.Unmarshal(e, &raw) != nil || raw == nil {
			continue
		}
		icons = append(icons, Icon{
			Src:     stringMember(raw, "src"),
			Sizes:   stringMember(raw, "sizes"),
			Type:    stringMember(raw, "type"),
			Purpose: stringMember(raw, "purpose"),
		})
	}
	return icons
}

// Has reports whether key was present in the decoded document.
func (m *Manifest) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.keys[key]
	return ok
}
