package testutil

import (
	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

// CompanyBuilder provides a fluent interface for describing a company as the
// registry would return it, across the profile, officers, PSC and charges
// endpoints.
//
// Example usage:
//
//	// Profile only, every other endpoint answers NOT_FOUND
//	mock := testutil.NewCompany().BuildMock()
//
//	// Customized company
//	mock := testutil.NewCompany().
//	    WithNumber("12345678").
//	    WithOfficer("JOHN SMITH", "director").
//	    WithPSC("JOHN SMITH", "ownership-of-shares-50-to-75-percent").
//	    WithCharge("outstanding").
//	    BuildMock()
type CompanyBuilder struct {
	Number   string
	Name     string
	Status   string
	Type     string
	Created  string
	Officers []map[string]any
	PSCs     []map[string]any
	Charges  []map[string]any

	chargesTotal *int
	failures     map[string]companieshouse.ErrorKind
}

// NewCompany creates a CompanyBuilder with sensible defaults.
func NewCompany() *CompanyBuilder {
	return &CompanyBuilder{
		Number:   MakeCompanyNumber(),
		Name:     "ACME LTD",
		Status:   "active",
		Type:     "ltd",
		Created:  "2015-03-02",
		failures: make(map[string]companieshouse.ErrorKind),
	}
}

// WithNumber sets a custom company number.
func (b *CompanyBuilder) WithNumber(number string) *CompanyBuilder {
	b.Number = number
	return b
}

// WithName sets a custom company name.
func (b *CompanyBuilder) WithName(name string) *CompanyBuilder {
	b.Name = name
	return b
}

// WithStatus sets a custom company status.
func (b *CompanyBuilder) WithStatus(status string) *CompanyBuilder {
	b.Status = status
	return b
}

// WithOfficer adds a current officer (resigned_on is null).
func (b *CompanyBuilder) WithOfficer(name, role string) *CompanyBuilder {
	b.Officers = append(b.Officers, map[string]any{
		"name":                 name,
		"officer_role":         role,
		"appointed_on":         "2016-01-01",
		"resigned_on":          nil,
		"nationality":          "British",
		"country_of_residence": "England",
	})
	return b
}

// WithResignedOfficer adds an officer who resigned on the given date.
func (b *CompanyBuilder) WithResignedOfficer(name, role, resignedOn string) *CompanyBuilder {
	b.Officers = append(b.Officers, map[string]any{
		"name":         name,
		"officer_role": role,
		"appointed_on": "2010-01-01",
		"resigned_on":  resignedOn,
	})
	return b
}

// WithPSC adds a person with significant control and its control tags.
func (b *CompanyBuilder) WithPSC(name string, naturesOfControl ...string) *CompanyBuilder {
	if naturesOfControl == nil {
		naturesOfControl = []string{}
	}
	b.PSCs = append(b.PSCs, map[string]any{
		"name":                 name,
		"kind":                 "individual-person-with-significant-control",
		"natures_of_control":   naturesOfControl,
		"nationality":          "British",
		"country_of_residence": "England",
	})
	return b
}

// WithCharge adds a charge with the given status.
func (b *CompanyBuilder) WithCharge(status string) *CompanyBuilder {
	b.Charges = append(b.Charges, map[string]any{
		"charge_code": MakeChargeCode(),
		"status":      status,
	})
	return b
}

// WithChargesTotal overrides total_count of the charges envelope, which
// otherwise equals the number of charges added.
func (b *CompanyBuilder) WithChargesTotal(total int) *CompanyBuilder {
	b.chargesTotal = &total
	return b
}

// Failing makes the endpoint with the given suffix fail with kind.
// Use companieshouse.SuffixProfile for the profile endpoint.
func (b *CompanyBuilder) Failing(suffix string, kind companieshouse.ErrorKind) *CompanyBuilder {
	b.failures[suffix] = kind
	return b
}

// ProfileJSON returns the profile payload as a map.
func (b *CompanyBuilder) ProfileJSON() map[string]any {
	return map[string]any{
		"company_number":   b.Number,
		"company_name":     b.Name,
		"company_status":   b.Status,
		"type":             b.Type,
		"date_of_creation": b.Created,
		"registered_office_address": map[string]any{
			"address_line_1": "1 High Street",
			"locality":       "London",
			"postal_code":    "EC1A 1AA",
		},
	}
}

// Register configures m to answer for this company.
func (b *CompanyBuilder) Register(m *MockFetcher) *MockFetcher {
	total := len(b.Charges)
	if b.chargesTotal != nil {
		total = *b.chargesTotal
	}

	payloads := map[string]any{
		companieshouse.SuffixProfile:                       b.ProfileJSON(),
		companieshouse.SuffixOfficers:                      map[string]any{"items": orEmpty(b.Officers), "total_results": len(b.Officers)},
		companieshouse.SuffixPersonsWithSignificantControl: map[string]any{"items": orEmpty(b.PSCs), "total_results": len(b.PSCs)},
		companieshouse.SuffixCharges:                       map[string]any{"items": orEmpty(b.Charges), "total_count": total},
	}

	for suffix, payload := range payloads {
		path := companieshouse.CompanyPath(b.Number, suffix)
		if kind, ok := b.failures[suffix]; ok {
			m.WithErrorKind(path, kind)
			continue
		}
		m.WithValue(path, payload)
	}
	return m
}

// BuildMock returns a new MockFetcher serving only this company.
func (b *CompanyBuilder) BuildMock() *MockFetcher {
	return b.Register(NewMockFetcher())
}

func orEmpty(items []map[string]any) []map[string]any {
	if items == nil {
		return []map[string]any{}
	}
	return items
}
