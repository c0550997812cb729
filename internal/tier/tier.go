package tier

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tier identifies a loan amount band.
type Tier string

const (
	Small  Tier = "small"
	Medium Tier = "medium"
	Large  Tier = "large"
)

const (
	// DefaultSmallThreshold is the exclusive upper bound of the small tier.
	DefaultSmallThreshold = 10_000
	// DefaultLargeThreshold is the inclusive lower bound of the large tier.
	DefaultLargeThreshold = 50_000
)

// Attachment colors per tier. Presentation configuration, not business rules;
// keep in sync with the channel conventions documented in the sample config.
const (
	colorSmall  = "#36a64f"
	colorMedium = "#3c66dd"
	colorLarge  = "#9c33e6"
)

var allTiers = []Tier{Small, Medium, Large}

// AllTiers returns the ordered list of known tiers.
func AllTiers() []Tier {
	cp := make([]Tier, len(allTiers))
	copy(cp, allTiers)
	return cp
}

// Thresholds holds the configured tier boundaries.
type Thresholds struct {
	Small float64
	Large float64
}

// DefaultThresholds returns the repository default boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Small: DefaultSmallThreshold, Large: DefaultLargeThreshold}
}

// Classify maps a loan amount onto a tier. Total over all finite non-negative
// amounts; boundary amounts are medium at Small and large at Large.
func (t Thresholds) Classify(amount float64) Tier {
	switch {
	case amount < t.Small:
		return Small
	case amount >= t.Large:
		return Large
	default:
		return Medium
	}
}

// Classify maps a loan amount onto a tier using the default thresholds.
func Classify(amount float64) Tier {
	return DefaultThresholds().Classify(amount)
}

// Color returns the attachment color hint for the tier.
func (t Tier) Color() string {
	switch t {
	case Small:
		return colorSmall
	case Medium:
		return colorMedium
	case Large:
		return colorLarge
	default:
		return ""
	}
}

// Description renders the amount range the tier represents under the given
// thresholds, e.g. "$10,000 - $49,999" for medium.
func (t Thresholds) Description(tr Tier) string {
	switch tr {
	case Small:
		return fmt.Sprintf("< %s", FormatAmount(t.Small))
	case Large:
		return fmt.Sprintf(">= %s", FormatAmount(t.Large))
	default:
		return fmt.Sprintf("%s - %s", FormatAmount(t.Small), FormatAmount(t.Large-1))
	}
}

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a dollar amount with thousands grouping and no cents.
func FormatAmount(amount float64) string {
	return currencyPrinter.Sprintf("$%d", int64(amount))
}
