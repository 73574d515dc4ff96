package model

import "encoding/json"

// OwnershipBand is the ownership classification derived for a PSC or an
// active director.
type OwnershipBand string

const (
	OwnershipUnknown OwnershipBand = "Unknown"
	OwnershipNotAPSC OwnershipBand = "0% (Not a PSC)"
	Ownership25To50  OwnershipBand = "25% - 50%"
	Ownership50To75  OwnershipBand = "50% - 75%"
	Ownership75To100 OwnershipBand = "75% - 100%"
)

// ActiveDirector is an officer without a resignation date, annotated with
// the ownership band of the PSC that carries the same name.
type ActiveDirector struct {
	Name                string        `json:"name"`
	Role                string        `json:"role"`
	Appointed           string        `json:"appointed"`
	Nationality         string        `json:"nationality"`
	CountryOfResidence  string        `json:"country_of_residence"`
	OwnershipPercentage OwnershipBand `json:"ownership_percentage"`
}

// BeneficialOwner is a PSC with its derived band and raw control tags.
type BeneficialOwner struct {
	Name                string        `json:"name"`
	Kind                string        `json:"kind"`
	Nationality         string        `json:"nationality"`
	CountryOfResidence  string        `json:"country_of_residence"`
	OwnershipPercentage OwnershipBand `json:"ownership_percentage"`
	NaturesOfControl    []string      `json:"natures_of_control"`
}

// ChargesSummary counts the charges registered against a company.
type ChargesSummary struct {
	TotalCharges       int `json:"total_charges"`
	OutstandingCharges int `json:"outstanding_charges"`
}

// CompanyReport is the consolidated ownership and control report.
// RegisteredAddress and FullProfileSource hold the profile payload exactly as
// received.
type CompanyReport struct {
	CompanyName       string            `json:"company_name"`
	CompanyNumber     string            `json:"company_number"`
	Status            string            `json:"status"`
	Type              string            `json:"type"`
	IncorporationDate string            `json:"incorporation_date"`
	RegisteredAddress json.RawMessage   `json:"registered_address"`
	OfficersCount     int               `json:"officers_count"`
	ActiveDirectors   []ActiveDirector  `json:"active_directors"`
	BeneficialOwners  []BeneficialOwner `json:"beneficial_owners"`
	ChargesSummary    ChargesSummary    `json:"charges_summary"`
	FullProfileSource json.RawMessage   `json:"full_profile_source"`
}
