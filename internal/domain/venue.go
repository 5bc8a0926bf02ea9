package domain

// Venue identifies one of the DEX router contracts the detector compares.
type Venue string

const (
	VenueQuickSwap Venue = "QuickSwap"
	VenueSushiSwap Venue = "SushiSwap"
)

// String returns the string representation of Venue.
func (v Venue) String() string {
	return string(v)
}

// IsValid checks if the venue is a known value.
func (v Venue) IsValid() bool {
	return v == VenueQuickSwap || v == VenueSushiSwap
}
