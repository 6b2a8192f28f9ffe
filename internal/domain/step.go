package domain

// Step selects which version component an increment bumps.
type Step string

const (
	StepMajor Step = "major"
	StepMinor Step = "minor"
	StepPatch Step = "patch"
)

// ParseStep converts a configured step value into a Step.
func ParseStep(s string) (Step, error) {
	switch Step(s) {
	case StepMajor, StepMinor, StepPatch:
		return Step(s), nil
	default:
		return "", &InvalidStepError{Step: s}
	}
}
