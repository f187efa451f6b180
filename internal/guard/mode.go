package guard

import (
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// Mode controls how a login-state value that is neither true nor false is treated.
type Mode int

const (
	// Strict permits only a boolean true login state.
	Strict Mode = iota
	// Loose denies only an absent, boolean false or numeric zero login
	// state; any other value is permitted. This fails open on unexpected types.
	Loose
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Loose:
		return "loose"
	}
	return "unknown"
}

// ParseMode parses "strict" or "loose" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return Strict, nil
	case "loose":
		return Loose, nil
	}
	return Strict, common.ErrUnknownMode
}
