package model

import "encoding/json"

// CompanyProfile is the identity and status of a company.
// It is fetched once per report and never modified.
// RegisteredOfficeAddress is kept exactly as received.
type CompanyProfile struct {
	CompanyNumber           Text            `json:"company_number"`
	CompanyName             Text            `json:"company_name"`
	CompanyStatus           Text            `json:"company_status"`
	Type                    Text            `json:"type"`
	DateOfCreation          Text            `json:"date_of_creation"`
	RegisteredOfficeAddress json.RawMessage `json:"registered_office_address"`
}

// Officer is a director, secretary or similar role holder at a company.
// ResignedOn holds the raw value; absent or null means the appointment is
// current.
type Officer struct {
	Name               Text            `json:"name"`
	OfficerRole        Text            `json:"officer_role"`
	AppointedOn        Text            `json:"appointed_on"`
	ResignedOn         json.RawMessage `json:"resigned_on"`
	Nationality        Text            `json:"nationality"`
	CountryOfResidence Text            `json:"country_of_residence"`
}

// Active reports whether the officer has no resignation date.
func (o Officer) Active() bool {
	return isNull(o.ResignedOn)
}

// OfficerList is the envelope of the officers endpoint.
type OfficerList struct {
	Items List[Officer] `json:"items"`
}

// PSC is a person (or entity) with significant control over a company.
type PSC struct {
	Name               Text `json:"name"`
	Kind               Text `json:"kind"`
	NaturesOfControl   Tags `json:"natures_of_control"`
	Nationality        Text `json:"nationality"`
	CountryOfResidence Text `json:"country_of_residence"`
}

// PSCList is the envelope of the persons-with-significant-control endpoint.
type PSCList struct {
	Items List[PSC] `json:"items"`
}

// Charge is a registered security interest, such as a mortgage. Only the
// status is read.
type Charge struct {
	Status Text `json:"status"`
}

// ChargeStatusOutstanding is the only status counted as outstanding.
// Comparison is exact and case-sensitive.
const ChargeStatusOutstanding = "outstanding"

// ChargeList is the envelope of the charges endpoint. TotalCount is the
// upstream total and may exceed len(Items).
type ChargeList struct {
	TotalCount Count        `json:"total_count"`
	Items      List[Charge] `json:"items"`
}
