package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/api/middleware"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/api/response"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/service"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/validation"
)

// CompanyHandler handles HTTP requests for company endpoints.
// It mirrors every registry tool as a GET route. Registry failures are
// answered with their tagged error object; see response.RespondAPIError.
type CompanyHandler struct {
	registry *service.RegistryService
	reports  *service.ReportService
}

// NewCompanyHandler creates a new CompanyHandler with the provided service dependencies.
func NewCompanyHandler(registry *service.RegistryService, reports *service.ReportService) *CompanyHandler {
	return &CompanyHandler{
		registry: registry,
		reports:  reports,
	}
}

// Search handles company searches.
//
// Endpoint: GET /api/companies/search?q=&items_per_page=&start_index=
// Response: 200 OK with the registry search result
// Error: 400 Bad Request for invalid parameters, registry failures mapped by kind
func (h *CompanyHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	itemsPerPage, err := validation.ParseItemsPerPage(query.Get("items_per_page"), service.DefaultSearchItemsPerPage)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}
	startIndex, err := validation.ParseStartIndex(query.Get("start_index"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}
	if err := validation.ValidateSearch(query.Get("q"), itemsPerPage, startIndex); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}

	body, err := h.registry.SearchCompanies(r.Context(), middleware.CredentialFromContext(r.Context()), query.Get("q"), itemsPerPage, startIndex)
	respondRegistry(w, body, err)
}

// Profile handles GET /api/companies/{companyNumber}.
func (h *CompanyHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.companyRead(w, r, h.registry.GetCompanyProfile)
}

// Officers handles GET /api/companies/{companyNumber}/officers?items_per_page=.
func (h *CompanyHandler) Officers(w http.ResponseWriter, r *http.Request) {
	itemsPerPage, err := validation.ParseItemsPerPage(r.URL.Query().Get("items_per_page"), service.DefaultOfficersItemsPerPage)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid officers parameters", err.Error())
		return
	}

	body, err := h.registry.GetCompanyOfficers(r.Context(), middleware.CredentialFromContext(r.Context()), chi.URLParam(r, "companyNumber"), itemsPerPage)
	respondRegistry(w, body, err)
}

// FilingHistory handles GET /api/companies/{companyNumber}/filing-history?category=&items_per_page=.
func (h *CompanyHandler) FilingHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	itemsPerPage, err := validation.ParseItemsPerPage(query.Get("items_per_page"), service.DefaultFilingHistoryItemsPerPage)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid filing history parameters", err.Error())
		return
	}

	body, err := h.registry.GetFilingHistory(r.Context(), middleware.CredentialFromContext(r.Context()),
		chi.URLParam(r, "companyNumber"), query.Get("category"), itemsPerPage)
	respondRegistry(w, body, err)
}

// Charges handles GET /api/companies/{companyNumber}/charges.
func (h *CompanyHandler) Charges(w http.ResponseWriter, r *http.Request) {
	h.companyRead(w, r, h.registry.GetCompanyCharges)
}

// Insolvency handles GET /api/companies/{companyNumber}/insolvency.
func (h *CompanyHandler) Insolvency(w http.ResponseWriter, r *http.Request) {
	h.companyRead(w, r, h.registry.GetCompanyInsolvency)
}

// PersonsWithSignificantControl handles GET /api/companies/{companyNumber}/persons-with-significant-control.
func (h *CompanyHandler) PersonsWithSignificantControl(w http.ResponseWriter, r *http.Request) {
	h.companyRead(w, r, h.registry.GetPersonsWithSignificantControl)
}

// RegisteredOfficeAddress handles GET /api/companies/{companyNumber}/registered-office-address.
func (h *CompanyHandler) RegisteredOfficeAddress(w http.ResponseWriter, r *http.Request) {
	h.companyRead(w, r, h.registry.GetRegisteredOfficeAddress)
}

// Report handles requests for the consolidated company report.
//
// Endpoint: GET /api/companies/{companyNumber}/report
// Response: 200 OK with model.CompanyReport
// Error: the profile's registry failure, mapped by kind
func (h *CompanyHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GenerateCompanyReport(r.Context(), chi.URLParam(r, "companyNumber"), middleware.CredentialFromContext(r.Context()))
	if err != nil {
		response.RespondAPIError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

func (h *CompanyHandler) companyRead(w http.ResponseWriter, r *http.Request, read func(ctx context.Context, credential, companyNumber string) (json.RawMessage, error)) {
	body, err := read(r.Context(), middleware.CredentialFromContext(r.Context()), chi.URLParam(r, "companyNumber"))
	respondRegistry(w, body, err)
}

func respondRegistry(w http.ResponseWriter, body json.RawMessage, err error) {
	if err != nil {
		response.RespondAPIError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, body)
}
