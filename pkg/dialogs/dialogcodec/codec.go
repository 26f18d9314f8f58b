// Package dialogcodec supplies durable (de)serialization for
// dialogs.StateMap, the logical persisted-state record. The JSON codec
// favors human inspection; the msgpack codec favors compact durable
// storage.
package dialogcodec

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/turnflow/dialogs/pkg/dialogs"
)

// Codec encodes and decodes a dialogs.StateMap to a durable byte form.
type Codec interface {
	Encode(*dialogs.StateMap) ([]byte, error)
	Decode([]byte) (*dialogs.StateMap, error)
}

// JSON is a Codec backed by encoding/json.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Encode(m *dialogs.StateMap) ([]byte, error) {
	return json.Marshal(m)
}

func (jsonCodec) Decode(raw []byte) (*dialogs.StateMap, error) {
	var m dialogs.StateMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MsgPack is a Codec backed by github.com/vmihailenco/msgpack/v5.
var MsgPack Codec = msgpackCodec{}

type msgpackCodec struct{}

func (msgpackCodec) Encode(m *dialogs.StateMap) ([]byte, error) {
	return msgpack.Marshal(m)
}

func (msgpackCodec) Decode(raw []byte) (*dialogs.StateMap, error) {
	var m dialogs.StateMap
	if err := msgpack.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
