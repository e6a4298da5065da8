package normalize

import "strings"

// PaddedIDWidth is the width of TM's freight order keys.
const PaddedIDWidth = 22

// PaddedID is a freight order identifier in TM's zero-padded key space.
type PaddedID string

// NormalizeOrderIdentifier strips TM's zero padding.
// Empty input is returned unchanged and an all-zero identifier becomes "0".
func NormalizeOrderIdentifier(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// PadOrderIdentifier converts an identifier, padded or not, into TM's key form.
func PadOrderIdentifier(id string) PaddedID {
	n := NormalizeOrderIdentifier(id)
	if n == "" || len(n) >= PaddedIDWidth {
		return PaddedID(n)
	}
	return PaddedID(strings.Repeat("0", PaddedIDWidth-len(n)) + n)
}

func (p PaddedID) String() string {
	return string(p)
}
