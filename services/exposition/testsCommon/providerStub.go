package testsCommon

import (
	"context"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
)

// ProviderStub -
type ProviderStub struct {
	CollectHandler func(ctx context.Context) common.Readings
}

// Collect -
func (stub *ProviderStub) Collect(ctx context.Context) common.Readings {
	if stub.CollectHandler != nil {
		return stub.CollectHandler(ctx)
	}

	return common.Readings{}
}

// IsInterfaceNil -
func (stub *ProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
