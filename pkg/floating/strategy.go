package floating

import "fmt"

// Strategy is the CSS position used for the floating element.
type Strategy string

const (
	Absolute Strategy = "absolute"
	Fixed    Strategy = "fixed"
)

// ParseStrategy accepts "absolute" and "fixed". The empty string is absolute.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", Absolute:
		return Absolute, nil
	case Fixed:
		return Fixed, nil
	}
	return "", fmt.Errorf("invalid strategy %q", s)
}
