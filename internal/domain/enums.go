package domain

// Level represents the target audience sophistication of an explanation.
type Level string

const (
	LevelELI5   Level = "ELI5"
	LevelELI15  Level = "ELI15"
	LevelExpert Level = "EXPERT"
)

func (l Level) String() string { return string(l) }

func (l Level) IsValid() bool {
	switch l {
	case LevelELI5, LevelELI15, LevelExpert:
		return true
	}
	return false
}

// AllLevels returns every valid level in canonical order.
func AllLevels() []Level {
	return []Level{LevelELI5, LevelELI15, LevelExpert}
}

// ParseLevel converts a string code into a Level.
// Returns ErrValidation (wrapped) for unknown codes.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.IsValid() {
		return "", NewValidationError("level", "must be one of ELI5, ELI15, EXPERT")
	}
	return l, nil
}
