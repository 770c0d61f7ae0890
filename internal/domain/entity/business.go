// Package entity defines the core business entities for the domain layer.
package entity

// BusinessColor is the display label attached to a business.
type BusinessColor string

const (
	BusinessColorBlue   BusinessColor = "blue"
	BusinessColorGreen  BusinessColor = "green"
	BusinessColorPurple BusinessColor = "purple"
	BusinessColorOrange BusinessColor = "orange"
	BusinessColorRed    BusinessColor = "red"
	BusinessColorPink   BusinessColor = "pink"
	BusinessColorIndigo BusinessColor = "indigo"
	BusinessColorTeal   BusinessColor = "teal"
)

// DefaultBusinessColor is applied when a business is created without a color.
const DefaultBusinessColor = BusinessColorBlue

// BusinessPalette lists the allowed colors in display order.
var BusinessPalette = []BusinessColor{
	BusinessColorBlue,
	BusinessColorGreen,
	BusinessColorPurple,
	BusinessColorOrange,
	BusinessColorRed,
	BusinessColorPink,
	BusinessColorIndigo,
	BusinessColorTeal,
}

// IsValid reports whether the color belongs to the palette.
func (c BusinessColor) IsValid() bool {
	for _, allowed := range BusinessPalette {
		if c == allowed {
			return true
		}
	}
	return false
}

// Business is a named ledger book that owns transactions.
type Business struct {
	ID    string
	Name  string
	Color BusinessColor
}
