package trampoline

import (
	"fmt"
	"strings"
)

const (
	CategoryUnknown Category = iota
	CategoryLinkStats
	CategoryBattery
	CategoryGPS
	CategoryAttitude
)

// Category identifies the C signature a handle is expected to have.
type Category uint8

var categoryNames = map[Category]string{
	CategoryLinkStats: "linkstats",
	CategoryBattery:   "battery",
	CategoryGPS:       "gps",
	CategoryAttitude:  "attitude",
}

// Categories lists every dispatchable category in a stable order.
func Categories() []Category {
	return []Category{CategoryLinkStats, CategoryBattery, CategoryGPS, CategoryAttitude}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseCategory is case-insensitive and accepts the names returned by String.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown telemetry category '%s'", name)
}

func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("unknown telemetry category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
