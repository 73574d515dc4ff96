package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/apperrors"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/service"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/validation"
)

// Tool names.
const (
	ToolSearchCompanies                  = "search_companies"
	ToolGetCompanyProfile                = "get_company_profile"
	ToolGetCompanyOfficers               = "get_company_officers"
	ToolGetFilingHistory                 = "get_filing_history"
	ToolGetCompanyCharges                = "get_company_charges"
	ToolGetCompanyInsolvency             = "get_company_insolvency"
	ToolGetPersonsWithSignificantControl = "get_persons_with_significant_control"
	ToolGetRegisteredOfficeAddress       = "get_registered_office_address"
	ToolGenerateCompanyReport            = "generate_company_report"
)

// handler runs one tool with its raw JSON arguments.
type handler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

type tool struct {
	schema ToolSchema
	run    handler
}

// Toolset is the registry of callable tools. Every result is raw JSON; every
// failure is either an argument error (see IsArgumentError) or a
// *companieshouse.APIError.
type Toolset struct {
	registry *service.RegistryService
	reports  *service.ReportService
	log      zerolog.Logger

	tools  []tool
	byName map[string]int
}

type credentialArgs struct {
	APIKey string `json:"api_key"`
}

type companyArgs struct {
	CompanyNumber string `json:"company_number"`
	credentialArgs
}

type searchArgs struct {
	Q            string `json:"q"`
	ItemsPerPage *int   `json:"items_per_page"`
	StartIndex   *int   `json:"start_index"`
	credentialArgs
}

type officersArgs struct {
	ItemsPerPage *int `json:"items_per_page"`
	companyArgs
}

type filingHistoryArgs struct {
	Category     string `json:"category"`
	ItemsPerPage *int   `json:"items_per_page"`
	companyArgs
}

// NewToolset registers the nine registry tools.
func NewToolset(registry *service.RegistryService, reports *service.ReportService, log zerolog.Logger) *Toolset {
	t := &Toolset{
		registry: registry,
		reports:  reports,
		log:      log.With().Str("component", "tools").Logger(),
		byName:   make(map[string]int),
	}

	t.register(ToolSearchCompanies,
		"Search for companies by name, number, or address.",
		objectSchema([]string{"q"}, map[string]property{
			"q":              {"type": "string", "description": `The search query (e.g., "Barclays", "00000006").`},
			"items_per_page": {"type": "integer", "minimum": 1, "default": service.DefaultSearchItemsPerPage, "description": "Number of results to return."},
			"start_index":    {"type": "integer", "minimum": 0, "default": 0, "description": "The index of the first result to return (pagination)."},
			"api_key":        apiKeyProperty,
		}),
		t.searchCompanies)

	t.register(ToolGetCompanyProfile,
		"Get the basic profile of a company (status, address, type, etc.).",
		companySchema(nil),
		t.companyTool(t.registry.GetCompanyProfile))

	t.register(ToolGetCompanyOfficers,
		"Get the list of officers (directors, secretaries) for a company.",
		companySchema(map[string]property{
			"items_per_page": {"type": "integer", "minimum": 1, "default": service.DefaultOfficersItemsPerPage, "description": "Number of officers to return."},
		}),
		t.companyOfficers)

	t.register(ToolGetFilingHistory,
		"Get the filing history of a company (accounts, returns, changes).",
		companySchema(map[string]property{
			"category":       {"type": "string", "description": "Optional filter (e.g., 'accounts', 'annual-return', 'confirmation-statement', 'officers')."},
			"items_per_page": {"type": "integer", "minimum": 1, "default": service.DefaultFilingHistoryItemsPerPage, "description": "Number of items to return."},
		}),
		t.filingHistory)

	t.register(ToolGetCompanyCharges,
		"Get details of charges (mortgages) registered against the company.",
		companySchema(nil),
		t.companyTool(t.registry.GetCompanyCharges))

	t.register(ToolGetCompanyInsolvency,
		"Get insolvency proceedings information for a company.",
		companySchema(nil),
		t.companyTool(t.registry.GetCompanyInsolvency))

	t.register(ToolGetPersonsWithSignificantControl,
		"Get the Persons with Significant Control (PSC) of a company (Beneficial Owners).",
		companySchema(nil),
		t.companyTool(t.registry.GetPersonsWithSignificantControl))

	t.register(ToolGetRegisteredOfficeAddress,
		"Get the current registered office address of a company.",
		companySchema(nil),
		t.companyTool(t.registry.GetRegisteredOfficeAddress))

	t.register(ToolGenerateCompanyReport,
		"Generate a consolidated report for a company: basic profile, active directors, "+
			"beneficial owners (PSCs) with ownership band, and a summary of charges (mortgages).",
		companySchema(nil),
		t.companyReport)

	return t
}

func (t *Toolset) register(name, description string, inputSchema json.RawMessage, run handler) {
	t.byName[name] = len(t.tools)
	t.tools = append(t.tools, tool{
		schema: ToolSchema{Name: name, Description: description, InputSchema: inputSchema},
		run:    run,
	})
}

// List returns the tool schemas in registration order.
func (t *Toolset) List() []ToolSchema {
	schemas := make([]ToolSchema, len(t.tools))
	for i, tl := range t.tools {
		schemas[i] = tl.schema
	}
	return schemas
}

// Call runs the named tool. Argument problems are returned wrapped in
// apperrors.ErrInvalidArguments or apperrors.ErrUnknownTool; any other
// failure is returned as a *companieshouse.APIError.
func (t *Toolset) Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownTool, name)
	}

	log := t.log.With().Str("call_id", uuid.NewString()).Str("tool", name).Logger()
	start := time.Now()

	result, err := t.tools[idx].run(ctx, args)
	if err != nil {
		if IsArgumentError(err) {
			log.Debug().Err(err).Msg("Rejected tool arguments")
			return nil, err
		}
		apiErr := companieshouse.AsAPIError(err)
		log.Info().
			Str("kind", string(apiErr.Kind)).
			Dur("duration", time.Since(start)).
			Msg("Tool call failed")
		return nil, apiErr
	}

	log.Debug().Dur("duration", time.Since(start)).Msg("Tool call completed")
	return result, nil
}

// IsArgumentError reports whether err was caused by the caller's arguments
// rather than by the registry.
func IsArgumentError(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidArguments) || errors.Is(err, apperrors.ErrUnknownTool)
}

func (t *Toolset) searchCompanies(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	args, err := decodeArgs[searchArgs](raw)
	if err != nil {
		return nil, err
	}

	itemsPerPage := intOr(args.ItemsPerPage, service.DefaultSearchItemsPerPage)
	startIndex := intOr(args.StartIndex, 0)
	if err := validation.ValidateSearch(args.Q, itemsPerPage, startIndex); err != nil {
		return nil, invalidArguments(err)
	}

	return t.registry.SearchCompanies(ctx, args.APIKey, args.Q, itemsPerPage, startIndex)
}

// companyTool adapts a read that takes only a company number.
func (t *Toolset) companyTool(read func(ctx context.Context, credential, companyNumber string) (json.RawMessage, error)) handler {
	return func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
		args, err := decodeArgs[companyArgs](raw)
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateCompanyNumber(args.CompanyNumber); err != nil {
			return nil, invalidArguments(err)
		}
		return read(ctx, args.APIKey, args.CompanyNumber)
	}
}

func (t *Toolset) companyOfficers(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	args, err := decodeArgs[officersArgs](raw)
	if err != nil {
		return nil, err
	}

	itemsPerPage := intOr(args.ItemsPerPage, service.DefaultOfficersItemsPerPage)
	if err := validation.ValidateCompanyPage(args.CompanyNumber, itemsPerPage); err != nil {
		return nil, invalidArguments(err)
	}

	return t.registry.GetCompanyOfficers(ctx, args.APIKey, args.CompanyNumber, itemsPerPage)
}

func (t *Toolset) filingHistory(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	args, err := decodeArgs[filingHistoryArgs](raw)
	if err != nil {
		return nil, err
	}

	itemsPerPage := intOr(args.ItemsPerPage, service.DefaultFilingHistoryItemsPerPage)
	if err := validation.ValidateCompanyPage(args.CompanyNumber, itemsPerPage); err != nil {
		return nil, invalidArguments(err)
	}

	return t.registry.GetFilingHistory(ctx, args.APIKey, args.CompanyNumber, args.Category, itemsPerPage)
}

func (t *Toolset) companyReport(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	args, err := decodeArgs[companyArgs](raw)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateCompanyNumber(args.CompanyNumber); err != nil {
		return nil, invalidArguments(err)
	}

	report, err := t.reports.GenerateCompanyReport(ctx, args.CompanyNumber, args.APIKey)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode company report: %w", err)
	}
	return data, nil
}

// decodeArgs decodes tool arguments. Missing or null arguments decode to the
// zero value and are left to validation.
func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, invalidArguments(err)
	}
	return args, nil
}

func invalidArguments(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrInvalidArguments, err)
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

type property map[string]any

var (
	apiKeyProperty        = property{"type": "string", "description": "Optional API key; overrides the server's configured key."}
	companyNumberProperty = property{"type": "string", "description": "The 8-digit company registration number."}
)

func companySchema(extra map[string]property) json.RawMessage {
	props := map[string]property{
		"company_number": companyNumberProperty,
		"api_key":        apiKeyProperty,
	}
	for k, v := range extra {
		props[k] = v
	}
	return objectSchema([]string{"company_number"}, props)
}

func objectSchema(required []string, props map[string]property) json.RawMessage {
	data, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	})
	if err != nil {
		panic(err)
	}
	return data
}
