package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged probability checks.
// All rolls are logged at debug level with label, chance, value, and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil || logger == nil {
		panic("dice: NewLoggedRoller requires non-nil src and logger")
	}
	return &Roller{src: src, logger: logger}
}

// Chance performs one probability check and logs it.
//
// Postcondition: Exactly one value is drawn from the underlying Source.
func (r *Roller) Chance(label string, chance float64) bool {
	roll := Check(label, chance, r.src)
	r.logger.Debug("dice roll",
		zap.String("label", roll.Label),
		zap.Float64("chance", roll.Chance),
		zap.Float64("value", roll.Value),
		zap.Bool("success", roll.Success),
	)
	return roll.Success
}

// Percent performs a check against a chance expressed in percent (0-100).
func (r *Roller) Percent(label string, pct float64) bool {
	return r.Chance(label, pct/100)
}

// Float64 draws a raw value from the underlying Source.
func (r *Roller) Float64() float64 {
	return r.src.Float64()
}
