package contracts

import (
	"context"

	"github.com/XavierBriggs/Hermes/pkg/models"
)

// FootballAPI defines the interface for fetching competition and match data
// from the upstream football-data API. Implementations own all retry,
// backoff and rate-limit handling; callers see either a parsed payload or a
// terminal error.
type FootballAPI interface {
	// Competitions retrieves the full competitions listing.
	Competitions(ctx context.Context) (models.Document, error)

	// CompetitionMatches retrieves matches for one competition code within
	// an inclusive ISO-date window.
	CompetitionMatches(ctx context.Context, code, dateFrom, dateTo string) (models.Document, error)
}
