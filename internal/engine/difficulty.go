package engine

// Tone classifies how dangerous an encounter looks
type Tone string

// Tones, from safest to deadliest
const (
	ToneSafe   Tone = "safe"
	ToneRisky  Tone = "risky"
	ToneDeadly Tone = "deadly"
)

// Difficulty is the label shown next to a win probability
type Difficulty struct {
	Label  string
	Tone   Tone
	Flavor string
}

// DifficultyFor buckets a win probability: >= 0.75 safe, >= 0.45 risky,
// anything lower deadly.
func DifficultyFor(winProbability float64) Difficulty {
	switch {
	case winProbability >= 0.75:
		return Difficulty{Label: "Safe", Tone: ToneSafe, Flavor: "Looks winnable. You've got room for mistakes."}
	case winProbability >= 0.45:
		return Difficulty{Label: "Risky", Tone: ToneRisky, Flavor: "This could swing either way. Bring tactics."}
	default:
		return Difficulty{Label: "Deadly", Tone: ToneDeadly, Flavor: "High danger. Consider retreat or resources."}
	}
}
