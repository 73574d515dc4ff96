package companieshouse

import "net/url"

// Registry endpoint paths. Company-scoped paths are built with CompanyPath.
const (
	PathSearchCompanies = "/search/companies"

	SuffixProfile                       = ""
	SuffixOfficers                      = "/officers"
	SuffixFilingHistory                 = "/filing-history"
	SuffixCharges                       = "/charges"
	SuffixInsolvency                    = "/insolvency"
	SuffixPersonsWithSignificantControl = "/persons-with-significant-control"
	SuffixRegisteredOfficeAddress       = "/registered-office-address"
)

// CompanyPath returns /company/{number}{suffix} with the number path-escaped.
func CompanyPath(companyNumber, suffix string) string {
	return "/company/" + url.PathEscape(companyNumber) + suffix
}
