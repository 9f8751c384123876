package sources

import (
	"context"
	"time"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// Source interface defines the contract for all mention sources. Sources
// return deduplicated batches; the pipeline does not dedup across sources.
type Source interface {
	GetName() string
	FetchMentions(ctx context.Context, window time.Duration) ([]models.Mention, error)
	IsEnabled() bool
}
