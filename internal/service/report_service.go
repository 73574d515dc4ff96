package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/model"
)

// ReportOfficersPageSize is the officers page size requested for a report.
const ReportOfficersPageSize = 100

// ownershipMarkers lists the natures-of-control substrings in priority order.
// The first marker found in any tag decides the band.
var ownershipMarkers = []struct {
	marker string
	band   model.OwnershipBand
}{
	{marker: "75-to-100-percent", band: model.Ownership75To100},
	{marker: "50-to-75-percent", band: model.Ownership50To75},
	{marker: "25-to-50-percent", band: model.Ownership25To50},
}

// ReportService assembles the consolidated ownership and control report from
// four registry reads. It keeps no state between calls.
type ReportService struct {
	fetcher companieshouse.Fetcher
	log     zerolog.Logger
}

// NewReportService creates a new ReportService reading through fetcher.
func NewReportService(fetcher companieshouse.Fetcher, log zerolog.Logger) *ReportService {
	return &ReportService{
		fetcher: fetcher,
		log:     log.With().Str("component", "report").Logger(),
	}
}

// GenerateCompanyReport fetches profile, officers, PSCs and charges in that
// order and cross-references them.
//
// A profile failure is returned as-is and no further calls are made. Failures
// of the other three reads degrade to empty data. Cancellation of ctx aborts
// the report instead of degrading.
//
// Parameters:
//   - ctx: Cancels in-flight and remaining fetches
//   - companyNumber: Registry number of the company
//   - credential: Per-call API key; empty uses the configured default
//
// Returns:
//   - *model.CompanyReport: The assembled report
//   - error: *companieshouse.APIError from the profile read or cancellation
func (s *ReportService) GenerateCompanyReport(ctx context.Context, companyNumber, credential string) (*model.CompanyReport, error) {
	log := s.log.With().Str("company_number", companyNumber).Logger()

	rawProfile, err := s.fetcher.Fetch(ctx, credential, companieshouse.CompanyPath(companyNumber, companieshouse.SuffixProfile), nil)
	if err != nil {
		log.Info().Str("kind", string(companieshouse.KindOf(err))).Msg("Profile unavailable, report aborted")
		return nil, companieshouse.AsAPIError(err)
	}

	var profile model.CompanyProfile
	if err := json.Unmarshal(rawProfile, &profile); err != nil {
		return nil, companieshouse.AsAPIError(fmt.Errorf("failed to decode company profile: %w", err))
	}

	officers, err := fetchOptional[model.OfficerList](ctx, s.fetcher, log, credential, "officers",
		companieshouse.CompanyPath(companyNumber, companieshouse.SuffixOfficers),
		url.Values{"items_per_page": {strconv.Itoa(ReportOfficersPageSize)}})
	if err != nil {
		return nil, err
	}

	pscs, err := fetchOptional[model.PSCList](ctx, s.fetcher, log, credential, "persons-with-significant-control",
		companieshouse.CompanyPath(companyNumber, companieshouse.SuffixPersonsWithSignificantControl), nil)
	if err != nil {
		return nil, err
	}

	charges, err := fetchOptional[model.ChargeList](ctx, s.fetcher, log, credential, "charges",
		companieshouse.CompanyPath(companyNumber, companieshouse.SuffixCharges), nil)
	if err != nil {
		return nil, err
	}

	beneficialOwners, ownership := buildBeneficialOwners(pscs.Items)

	return &model.CompanyReport{
		CompanyName:       string(profile.CompanyName),
		CompanyNumber:     string(profile.CompanyNumber),
		Status:            string(profile.CompanyStatus),
		Type:              string(profile.Type),
		IncorporationDate: string(profile.DateOfCreation),
		RegisteredAddress: profile.RegisteredOfficeAddress,
		OfficersCount:     len(officers.Items),
		ActiveDirectors:   buildActiveDirectors(officers.Items, ownership),
		BeneficialOwners:  beneficialOwners,
		ChargesSummary:    summarizeCharges(charges),
		FullProfileSource: rawProfile,
	}, nil
}

// fetchOptional reads a sub-resource that the report can do without. Any
// failure, including an undecodable body, yields the zero T and a nil error,
// unless ctx is done, in which case the cancellation is returned.
func fetchOptional[T any](ctx context.Context, fetcher companieshouse.Fetcher, log zerolog.Logger, credential, resource, path string, params url.Values) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, companieshouse.AsAPIError(err)
	}

	body, err := fetcher.Fetch(ctx, credential, path, params)
	if err == nil {
		var out T
		if err = json.Unmarshal(body, &out); err == nil {
			return out, nil
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, companieshouse.AsAPIError(ctxErr)
	}

	log.Warn().
		Err(err).
		Str("resource", resource).
		Str("kind", string(companieshouse.KindOf(err))).
		Msg("Sub-resource unavailable, using empty data")
	return zero, nil
}

// ClassifyOwnership returns the highest ownership band named by any of the
// natures-of-control tags. Matching is substring containment, so a tag only
// needs to contain a band marker somewhere. Tags with no marker give
// OwnershipUnknown.
func ClassifyOwnership(naturesOfControl []string) model.OwnershipBand {
	for _, m := range ownershipMarkers {
		for _, nature := range naturesOfControl {
			if strings.Contains(nature, m.marker) {
				return m.band
			}
		}
	}
	return model.OwnershipUnknown
}

// NormalizeName is the key used to match officers against PSCs: the name
// upper-cased, nothing else.
func NormalizeName(name string) string {
	return strings.ToUpper(name)
}

// buildBeneficialOwners returns one entry per PSC together with the
// normalized-name ownership map. A later PSC overwrites an earlier one with
// the same normalized name in the map.
func buildBeneficialOwners(pscs []model.PSC) ([]model.BeneficialOwner, map[string]model.OwnershipBand) {
	owners := make([]model.BeneficialOwner, 0, len(pscs))
	ownership := make(map[string]model.OwnershipBand, len(pscs))

	for _, psc := range pscs {
		band := ClassifyOwnership(psc.NaturesOfControl)
		ownership[NormalizeName(string(psc.Name))] = band

		natures := []string(psc.NaturesOfControl)
		if natures == nil {
			natures = []string{}
		}

		owners = append(owners, model.BeneficialOwner{
			Name:                string(psc.Name),
			Kind:                string(psc.Kind),
			Nationality:         string(psc.Nationality),
			CountryOfResidence:  string(psc.CountryOfResidence),
			OwnershipPercentage: band,
			NaturesOfControl:    natures,
		})
	}

	return owners, ownership
}

// buildActiveDirectors keeps officers with no resignation date and attaches
// the band of the PSC with the same normalized name.
func buildActiveDirectors(officers []model.Officer, ownership map[string]model.OwnershipBand) []model.ActiveDirector {
	directors := make([]model.ActiveDirector, 0, len(officers))

	for _, o := range officers {
		if !o.Active() {
			continue
		}

		band, ok := ownership[NormalizeName(string(o.Name))]
		if !ok {
			band = model.OwnershipNotAPSC
		}

		directors = append(directors, model.ActiveDirector{
			Name:                string(o.Name),
			Role:                string(o.OfficerRole),
			Appointed:           string(o.AppointedOn),
			Nationality:         string(o.Nationality),
			CountryOfResidence:  string(o.CountryOfResidence),
			OwnershipPercentage: band,
		})
	}

	return directors
}

// summarizeCharges takes the total from the upstream count and the
// outstanding figure from the fetched page only.
func summarizeCharges(charges model.ChargeList) model.ChargesSummary {
	outstanding := 0
	for _, c := range charges.Items {
		if c.Status == model.ChargeStatusOutstanding {
			outstanding++
		}
	}

	return model.ChargesSummary{
		TotalCharges:       int(charges.TotalCount),
		OutstandingCharges: outstanding,
	}
}
