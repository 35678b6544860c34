package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the presets from easiest to hardest.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset converts a preset name. An empty name means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// ApplyPreset adjusts speeds and pacing for a difficulty preset.
// Easy slows quick tanks to player speed; hard runs the clock faster.
func ApplyPreset(cfg *TanksConfig, preset DifficultyPreset) {
	cfg.Runtime.Difficulty = preset

	switch preset {
	case DifficultyEasy:
		cfg.Actors.TankSpeed = 1
		cfg.Actors.QuickTankSpeed = 1
		cfg.Runtime.TickRate = 24
	case DifficultyNormal:
		cfg.Actors.TankSpeed = 1
		cfg.Actors.QuickTankSpeed = 2
		cfg.Runtime.TickRate = 30
	case DifficultyHard:
		cfg.Actors.TankSpeed = 1
		cfg.Actors.QuickTankSpeed = 2
		cfg.Runtime.TickRate = 45
	}
}
