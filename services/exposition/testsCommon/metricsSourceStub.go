package testsCommon

import "github.com/iulianpascalau/metrics-exposition/snapshot"

// MetricsSourceStub -
type MetricsSourceStub struct {
	LatestHashedHandler func() *snapshot.HashedSnapshot
}

// LatestHashed -
func (stub *MetricsSourceStub) LatestHashed() *snapshot.HashedSnapshot {
	if stub.LatestHashedHandler != nil {
		return stub.LatestHashedHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *MetricsSourceStub) IsInterfaceNil() bool {
	return stub == nil
}
