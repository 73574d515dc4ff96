package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

// Default page sizes for the pass-through reads.
const (
	DefaultSearchItemsPerPage        = 5
	DefaultOfficersItemsPerPage      = 20
	DefaultFilingHistoryItemsPerPage = 20
)

// RegistryService exposes the registry endpoints as single pass-through reads.
// Results are the raw upstream JSON; failures are *companieshouse.APIError.
type RegistryService struct {
	fetcher companieshouse.Fetcher
}

// NewRegistryService creates a new RegistryService reading through fetcher.
func NewRegistryService(fetcher companieshouse.Fetcher) *RegistryService {
	return &RegistryService{
		fetcher: fetcher,
	}
}

// SearchCompanies searches by name, number or address.
func (s *RegistryService) SearchCompanies(ctx context.Context, credential, query string, itemsPerPage, startIndex int) (json.RawMessage, error) {
	params := url.Values{
		"q":              {query},
		"items_per_page": {strconv.Itoa(itemsPerPage)},
		"start_index":    {strconv.Itoa(startIndex)},
	}
	return s.fetcher.Fetch(ctx, credential, companieshouse.PathSearchCompanies, params)
}

// GetCompanyProfile returns status, address, type and other basic details.
func (s *RegistryService) GetCompanyProfile(ctx context.Context, credential, companyNumber string) (json.RawMessage, error) {
	return s.company(ctx, credential, companyNumber, companieshouse.SuffixProfile, nil)
}

// GetCompanyOfficers returns directors, secretaries and other officers.
func (s *RegistryService) GetCompanyOfficers(ctx context.Context, credential, companyNumber string, itemsPerPage int) (json.RawMessage, error) {
	params := url.Values{"items_per_page": {strconv.Itoa(itemsPerPage)}}
	return s.company(ctx, credential, companyNumber, companieshouse.SuffixOfficers, params)
}

// GetFilingHistory returns filed documents, optionally restricted to a
// category such as "accounts" or "confirmation-statement".
func (s *RegistryService) GetFilingHistory(ctx context.Context, credential, companyNumber, category string, itemsPerPage int) (json.RawMessage, error) {
	params := url.Values{"items_per_page": {strconv.Itoa(itemsPerPage)}}
	if category != "" {
		params.Set("category", category)
	}
	return s.company(ctx, credential, companyNumber, companieshouse.SuffixFilingHistory, params)
}

// GetCompanyCharges returns the charges registered against the company.
func (s *RegistryService) GetCompanyCharges(ctx context.Context, credential, companyNumber string) (json.RawMessage, error) {
	return s.company(ctx, credential, companyNumber, companieshouse.SuffixCharges, nil)
}

// GetCompanyInsolvency returns insolvency proceedings.
func (s *RegistryService) GetCompanyInsolvency(ctx context.Context, credential, companyNumber string) (json.RawMessage, error) {
	return s.company(ctx, credential, companyNumber, companieshouse.SuffixInsolvency, nil)
}

// GetPersonsWithSignificantControl returns the beneficial owners.
func (s *RegistryService) GetPersonsWithSignificantControl(ctx context.Context, credential, companyNumber string) (json.RawMessage, error) {
	return s.company(ctx, credential, companyNumber, companieshouse.SuffixPersonsWithSignificantControl, nil)
}

// GetRegisteredOfficeAddress returns the current registered office address.
func (s *RegistryService) GetRegisteredOfficeAddress(ctx context.Context, credential, companyNumber string) (json.RawMessage, error) {
	return s.company(ctx, credential, companyNumber, companieshouse.SuffixRegisteredOfficeAddress, nil)
}

func (s *RegistryService) company(ctx context.Context, credential, companyNumber, suffix string, params url.Values) (json.RawMessage, error) {
	return s.fetcher.Fetch(ctx, credential, companieshouse.CompanyPath(companyNumber, suffix), params)
}
