package models

// Household is one apartment unit. ApartmentNumber is unique across the
// building.
type Household struct {
	ID              string `json:"id" yaml:"id"`
	ApartmentNumber string `json:"apartmentNumber" yaml:"apartment_number"`
	HeadResidentID  string `json:"headResidentId,omitempty" yaml:"head_resident_id,omitempty"`
	Active          bool   `json:"active" yaml:"active"`
}
