// Package config holds the user-facing settings and their persistence
// through the host's flat key-value config store.
package config

import (
	"encoding/json"
	"fmt"

	"pcb-polish/internal/host"
)

// SettingsKey is the config-store key the settings blob is stored under.
// The core owns this key and nothing else in the store.
const SettingsKey = "pcbpolish.settings"

// The board unit is the mil. User-entered radii may be in mil or mm.
const (
	UnitMil = "mil"
	UnitMM  = "mm"
)

// mmToMil converts millimetres to mils.
const mmToMil = 1 / 0.0254

// Settings holds every user-tunable knob for the geometry passes.
type Settings struct {
	// Corner rounding.
	CornerRadius       float64 `json:"cornerRadius"`
	RadiusUnit         string  `json:"radiusUnit"`
	MergeShortSegments bool    `json:"mergeShortSegments"`
	ForceArc           bool    `json:"forceArc"`

	// Width transitions.
	WidthTransitionRatio       float64 `json:"widthTransitionRatio"`
	WidthTransitionMaxSegments int     `json:"widthTransitionMaxSegments"`

	// Teardrops.
	TeardropSize float64 `json:"teardropSize"`
}

// Default returns the settings used before the user changes anything.
func Default() Settings {
	return Settings{
		CornerRadius:               10,
		RadiusUnit:                 UnitMil,
		MergeShortSegments:         true,
		ForceArc:                   false,
		WidthTransitionRatio:       1.5,
		WidthTransitionMaxSegments: 20,
		TeardropSize:               0.8,
	}
}

// RadiusMil returns the corner radius converted into board units.
func (s Settings) RadiusMil() float64 {
	if s.RadiusUnit == UnitMM {
		return s.CornerRadius * mmToMil
	}
	return s.CornerRadius
}

// Load reads the settings blob from the config store, filling in defaults
// for anything missing. An absent key yields the defaults.
func Load(store host.ConfigStore) (Settings, error) {
	s := Default()
	raw, ok, err := store.GetConfig(SettingsKey)
	if err != nil {
		return s, fmt.Errorf("load settings: %w", err)
	}
	if !ok || raw == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Default(), fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Save writes the settings blob back to the config store. Keys inside the
// stored blob that this version does not know about are preserved, so an
// older build never destroys a newer build's settings.
func Save(store host.ConfigStore, s Settings) error {
	merged := make(map[string]json.RawMessage)
	if raw, ok, err := store.GetConfig(SettingsKey); err == nil && ok && raw != "" {
		_ = json.Unmarshal([]byte(raw), &merged)
	}

	own, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	var ownMap map[string]json.RawMessage
	if err := json.Unmarshal(own, &ownMap); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	for k, v := range ownMap {
		merged[k] = v
	}

	blob, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := store.SetConfig(SettingsKey, string(blob)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
