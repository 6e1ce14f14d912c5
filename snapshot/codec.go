package snapshot

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotWire is the superset of both schema versions used on decode.
// A present duration field means the payload is a V2 snapshot.
type snapshotWire struct {
	Systemtime time.Time         `json:"systemtime" msgpack:"systemtime"`
	Duration   *time.Duration    `json:"duration,omitempty" msgpack:"duration,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	Counters   []Counter         `json:"counters" msgpack:"counters"`
	Gauges     []Gauge           `json:"gauges" msgpack:"gauges"`
	Histograms []Histogram       `json:"histograms" msgpack:"histograms"`
}

func (s *Snapshot) fromWire(wire *snapshotWire) {
	if wire.Metadata == nil {
		wire.Metadata = make(map[string]string)
	}

	if wire.Duration == nil {
		s.v1 = &SnapshotV1{
			Systemtime: wire.Systemtime,
			Metadata:   wire.Metadata,
			Counters:   wire.Counters,
			Gauges:     wire.Gauges,
			Histograms: wire.Histograms,
		}
		s.v2 = nil
		return
	}

	s.v2 = &SnapshotV2{
		Systemtime: wire.Systemtime,
		Duration:   *wire.Duration,
		Metadata:   wire.Metadata,
		Counters:   wire.Counters,
		Gauges:     wire.Gauges,
		Histograms: wire.Histograms,
	}
	s.v1 = nil
}

// MarshalJSON serializes the wrapped variant without a discriminant tag
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s.v2 != nil {
		return json.Marshal(s.v2)
	}

	return json.Marshal(s.v1)
}

// UnmarshalJSON infers the schema version from the presence of the duration field
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	wire := &snapshotWire{}
	err := json.Unmarshal(data, wire)
	if err != nil {
		return err
	}

	s.fromWire(wire)

	return nil
}

// EncodeMsgpack serializes the wrapped variant without a discriminant tag
func (s *Snapshot) EncodeMsgpack(enc *msgpack.Encoder) error {
	if s.v2 != nil {
		return enc.Encode(s.v2)
	}

	return enc.Encode(s.v1)
}

// DecodeMsgpack infers the schema version from the presence of the duration field
func (s *Snapshot) DecodeMsgpack(dec *msgpack.Decoder) error {
	wire := &snapshotWire{}
	err := dec.Decode(wire)
	if err != nil {
		return err
	}

	s.fromWire(wire)

	return nil
}

// ToJSON serializes any value to the self-describing text encoding, with a
// single trailing newline so outputs can be consumed line-delimited
func ToJSON(value any) ([]byte, error) {
	buff, err := json.Marshal(value)
	if err != nil {
		return nil, newSerializationError(err)
	}

	return append(buff, '\n'), nil
}

// ToMsgpack serializes any value to the compact binary encoding, without framing
func ToMsgpack(value any) ([]byte, error) {
	buff, err := msgpack.Marshal(value)
	if err != nil {
		return nil, newSerializationError(err)
	}

	return buff, nil
}

// FromJSON reconstructs a snapshot from its text encoding
func FromJSON(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	err := json.Unmarshal(data, s)
	if err != nil {
		return nil, newSerializationError(err)
	}

	return s, nil
}

// FromMsgpack reconstructs a snapshot from its binary encoding
func FromMsgpack(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	err := msgpack.Unmarshal(data, s)
	if err != nil {
		return nil, newSerializationError(err)
	}

	return s, nil
}
