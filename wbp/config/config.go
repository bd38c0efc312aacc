package config

// ExtractionConfig configures how recorded sessions are cut into phrases
type ExtractionConfig struct {
	// Policy filters
	DisallowNonRootStartNote     bool `json:"disallow_non_root_start_note" mapstructure:"disallow_non_root_start_note"`
	DisallowNonChordToneLastNote bool `json:"disallow_non_chord_tone_last_note" mapstructure:"disallow_non_chord_tone_last_note"`

	// Window sizes in bars, within 1..4
	MinBarSize int `json:"min_bar_size" mapstructure:"min_bar_size"`
	MaxBarSize int `json:"max_bar_size" mapstructure:"max_bar_size"`

	// Velocity normalization
	VelocityTarget float64 `json:"velocity_target" mapstructure:"velocity_target"`
	VelocitySigma  float64 `json:"velocity_sigma" mapstructure:"velocity_sigma"`
}

// ConsistencyConfig configures the offline database audit
type ConsistencyConfig struct {
	Style             string   `json:"style" mapstructure:"style"`                             // "walking", "2feel"
	TwoChordQualities []string `json:"two_chord_qualities" mapstructure:"two_chord_qualities"` // chord type names
	MinOnsetGap       float32  `json:"min_onset_gap" mapstructure:"min_onset_gap"`             // beats
	MinNoteDuration   float32  `json:"min_note_duration" mapstructure:"min_note_duration"`     // beats
}

// DefaultExtractionConfig returns the settings used to build the bundled corpus
func DefaultExtractionConfig() *ExtractionConfig {
	return &ExtractionConfig{
		DisallowNonRootStartNote:     true,
		DisallowNonChordToneLastNote: false,
		MinBarSize:                   1,
		MaxBarSize:                   4,
		VelocityTarget:               80,
		VelocitySigma:                12,
	}
}

// DefaultConsistencyConfig returns default audit settings
func DefaultConsistencyConfig() *ConsistencyConfig {
	return &ConsistencyConfig{
		Style:             "walking",
		TwoChordQualities: []string{"", "m", "7", "m7"},
		MinOnsetGap:       0.15,
		MinNoteDuration:   0.1,
	}
}
