package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ColorFamily classifies a zone by the color of wine it holds.
//
// The rack layout keeps all rows of one family on one side of a single
// boundary. Neutral zones (curiosities, overflow, mixed cases) match either
// family and never count toward boundary placement.
//
// Modeled as an enum rather than a sentinel string so comparison logic cannot
// silently typo the wildcard value.
type ColorFamily int

const (
	// ColorNeutral matches either family ("any" in serialized form).
	ColorNeutral ColorFamily = iota

	// ColorRed marks a red-wine zone.
	ColorRed

	// ColorWhite marks a white-wine zone.
	ColorWhite
)

// String returns the serialized form of the color family.
func (c ColorFamily) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorWhite:
		return "white"
	case ColorNeutral:
		return "any"
	default:
		return "unknown"
	}
}

// ParseColorFamily converts a serialized color family to its enum value.
//
// Unrecognized values parse as an error rather than silently becoming
// neutral, so malformed zone metadata is caught at the boundary.
//
// Parameters:
//   - s: Serialized color ("red", "white", or "any")
//
// Returns:
//   - ColorFamily: Parsed color family
//   - error: Non-nil for unrecognized input
func ParseColorFamily(s string) (ColorFamily, error) {
	switch s {
	case "red":
		return ColorRed, nil
	case "white":
		return ColorWhite, nil
	case "any", "":
		return ColorNeutral, nil
	default:
		return ColorNeutral, fmt.Errorf("%w: color family %q", ErrInvalidColorFamily, s)
	}
}

// Compatible reports whether two color families can share a region.
//
// Neutral is compatible with everything; red and white are only compatible
// with themselves.
func (c ColorFamily) Compatible(other ColorFamily) bool {
	if c == ColorNeutral || other == ColorNeutral {
		return true
	}

	return c == other
}

// MarshalJSON serializes the color family as its string form.
func (c ColorFamily) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON parses the string form of a color family.
func (c *ColorFamily) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := ParseColorFamily(s)
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

// MarshalYAML serializes the color family as its string form.
func (c ColorFamily) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML parses the string form of a color family.
func (c *ColorFamily) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseColorFamily(s)
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

// ColorOrder orients the physical rack: which color family occupies the rows
// before the boundary index.
type ColorOrder int

const (
	// RedFirst lays out red rows before the boundary, white after.
	RedFirst ColorOrder = iota

	// WhiteFirst lays out white rows before the boundary, red after.
	WhiteFirst
)

// String returns the serialized form of the color order.
func (o ColorOrder) String() string {
	if o == WhiteFirst {
		return "white-first"
	}

	return "red-first"
}

// First returns the color family expected before the boundary.
func (o ColorOrder) First() ColorFamily {
	if o == WhiteFirst {
		return ColorWhite
	}

	return ColorRed
}

// Second returns the color family expected after the boundary.
func (o ColorOrder) Second() ColorFamily {
	if o == WhiteFirst {
		return ColorRed
	}

	return ColorWhite
}

// ParseColorOrder converts a serialized color order to its enum value.
func ParseColorOrder(s string) (ColorOrder, error) {
	switch s {
	case "red-first", "":
		return RedFirst, nil
	case "white-first":
		return WhiteFirst, nil
	default:
		return RedFirst, fmt.Errorf("%w: color order %q", ErrInvalidColorFamily, s)
	}
}

// UnmarshalYAML parses the string form of a color order.
func (o *ColorOrder) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseColorOrder(s)
	if err != nil {
		return err
	}
	*o = parsed

	return nil
}

// MarshalYAML serializes the color order as its string form.
func (o ColorOrder) MarshalYAML() (any, error) {
	return o.String(), nil
}
