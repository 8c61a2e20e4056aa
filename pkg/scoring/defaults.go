package scoring

// DefaultExtraSelectionPenalty is the multi-choice extra-selection multiplier.
// Changing it changes every stored score's meaning; keep it at 0.8 unless
// product agrees otherwise.
const DefaultExtraSelectionPenalty = 0.8

// Option customizes an Engine.
type Option func(*Weights)

// WithExtraSelectionPenalty overrides the multi-choice penalty factor.
// Values outside [0, 1] are ignored.
func WithExtraSelectionPenalty(f float64) Option {
	return func(w *Weights) {
		if f >= 0 && f <= 1 {
			w.ExtraSelectionPenalty = f
		}
	}
}

// WithWeights replaces all weights at once.
func WithWeights(weights Weights) Option {
	return func(w *Weights) { *w = weights }
}

// defaultEngine backs the package-level scoring functions.
var defaultEngine = NewEngine()
