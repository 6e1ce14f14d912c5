package snapshotter

import (
	"context"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
)

// Provider supplies raw metric readings partitioned by kind. Failing sources
// are expected to log and omit their readings rather than return an error.
type Provider interface {
	Collect(ctx context.Context) common.Readings
	IsInterfaceNil() bool
}
