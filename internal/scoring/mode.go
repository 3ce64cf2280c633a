package scoring

import (
	"errors"
	"strings"
)

// Mode selects which components run and how they are weighted.
type Mode string

const (
	ModeFull         Mode = "full"
	ModeQuick        Mode = "quick"
	ModeKeywordsOnly Mode = "keywords_only"
)

// ErrInvalidMode is returned for an unknown analysis type.
var ErrInvalidMode = errors.New("analysis_type must be one of: full, quick, keywords_only")

// Modes lists every supported mode.
func Modes() []Mode {
	return []Mode{ModeFull, ModeQuick, ModeKeywordsOnly}
}

// ParseMode normalizes and validates a mode string. An empty value selects
// full analysis.
func ParseMode(raw string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return ModeFull, nil
	}
	switch Mode(normalized) {
	case ModeFull, ModeQuick, ModeKeywordsOnly:
		return Mode(normalized), nil
	default:
		return "", ErrInvalidMode
	}
}

// RunsSemantic reports whether the semantic matcher runs in this mode.
func (m Mode) RunsSemantic() bool {
	return m == ModeFull
}

func (m Mode) String() string {
	return string(m)
}
