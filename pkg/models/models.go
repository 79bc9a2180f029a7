package models

// ProductRecord is one product block extracted from a listing page.
// Price and Description are nil when the page has no matching element.
type ProductRecord struct {
	Name        string  `json:"name"`
	Price       *string `json:"price"`
	Description *string `json:"description"`
}

// PageResult is the unit persisted per processed page
type PageResult struct {
	URL      string          `json:"url"`
	Products []ProductRecord `json:"products"`
}

// ScraperMode defines the engine mode to use
type ScraperMode string

const (
	ModeAuto   ScraperMode = "auto"
	ModeStatic ScraperMode = "static"
	ModeSPA    ScraperMode = "spa"
)

// ParseMode converts a user supplied mode string into a ScraperMode
func ParseMode(s string) (ScraperMode, bool) {
	switch ScraperMode(s) {
	case ModeAuto, ModeStatic, ModeSPA:
		return ScraperMode(s), true
	default:
		return "", false
	}
}

// StringPtr returns a pointer to s, for optional record fields
func StringPtr(s string) *string {
	return &s
}
