package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/service"
)

func NewTestReportService(t *testing.T, fetcher companieshouse.Fetcher) *service.ReportService {
	t.Helper()
	return service.NewReportService(fetcher, zerolog.Nop())
}

func NewTestRegistryService(t *testing.T, fetcher companieshouse.Fetcher) *service.RegistryService {
	t.Helper()
	return service.NewRegistryService(fetcher)
}

// MakeCompanyNumber returns a random 8-digit company number.
func MakeCompanyNumber() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return fmt.Sprintf("%08d", rand.Intn(100000000))
}

// MakeChargeCode returns a random charge code in the registry's format.
func MakeChargeCode() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return fmt.Sprintf("%s%04d", MakeCompanyNumber(), rand.Intn(10000))
}
