// Package export service interface.
package export

import (
	"context"

	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
)

// Interface defines the contract for document generation so callers can be
// tested against a mock.
type Interface interface {
	// Generate sends entries to the generation endpoint and returns the
	// produced document.
	Generate(ctx context.Context, entries []models.LogEntry) (*Result, error)
}

// Ensure *Service implements the interface at compile time.
var _ Interface = (*Service)(nil)
