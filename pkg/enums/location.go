package enums

import "fmt"

// Location identifies one of the three stock-holding sites. Each
// (product, location) pair carries its own ledger of movements.
type Location string

const (
	LocationAddisAbaba     Location = "addis_ababa"
	LocationSEZKenya       Location = "sez_kenya"
	LocationNairobiPartner Location = "nairobi_partner"
)

var validLocations = []Location{
	LocationAddisAbaba,
	LocationSEZKenya,
	LocationNairobiPartner,
}

func (l Location) String() string {
	return string(l)
}

func (l Location) IsValid() bool {
	for _, v := range validLocations {
		if l == v {
			return true
		}
	}
	return false
}

func Locations() []Location {
	out := make([]Location, len(validLocations))
	copy(out, validLocations)
	return out
}

func ParseLocation(s string) (Location, error) {
	l := Location(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid location %q", s)
	}
	return l, nil
}
