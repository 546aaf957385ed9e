package config

import (
	"fmt"
	"strings"
)

// BotDifficulty affects reaction time and aim quality
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

func (d BotDifficulty) String() string {
	switch d {
	case BotDifficultyEasy:
		return "easy"
	case BotDifficultyNormal:
		return "normal"
	case BotDifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseBotDifficulty maps a flag value to a BotDifficulty.
func ParseBotDifficulty(s string) (BotDifficulty, error) {
	switch strings.ToLower(s) {
	case "easy":
		return BotDifficultyEasy, nil
	case "normal", "":
		return BotDifficultyNormal, nil
	case "hard":
		return BotDifficultyHard, nil
	}
	return 0, fmt.Errorf("unknown bot difficulty %q", s)
}

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay int     // Frames between two decisions
	FireRange     float64 // Distance to start shooting
	ChaseRange    float64 // Distance to start walking toward a target
	AimJitter     float64 // Max aim error in radians
	JumpChance    float64 // Chance per decision to jump
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulties map[BotDifficulty]BotDifficultyConfig
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay: 30, // 0.5 second reaction time
				FireRange:     300,
				ChaseRange:    500,
				AimJitter:     0.35,
				JumpChance:    0.05,
			},
			BotDifficultyNormal: {
				ReactionDelay: 15,
				FireRange:     450,
				ChaseRange:    700,
				AimJitter:     0.15,
				JumpChance:    0.1,
			},
			BotDifficultyHard: {
				ReactionDelay: 5, // Near-instant reaction
				FireRange:     600,
				ChaseRange:    900,
				AimJitter:     0.04,
				JumpChance:    0.15,
			},
		},
	}
}
