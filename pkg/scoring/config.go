package scoring

// Weights holds the tunable constants of the scorers.
type Weights struct {
	// ExtraSelectionPenalty multiplies a multi-choice award when the candidate
	// selected options outside the correct set and the rule penalizes extras.
	ExtraSelectionPenalty float64
}

// Defaults returns the default scoring weights.
func Defaults() Weights {
	return Weights{
		ExtraSelectionPenalty: DefaultExtraSelectionPenalty,
	}
}
