package dialogcodec

import (
	"reflect"
	"testing"

	"github.com/turnflow/dialogs/pkg/dialogs"
)

func sampleMap() *dialogs.StateMap {
	return &dialogs.StateMap{
		Version:      "1.0",
		Name:         "name_getter_dialog",
		SentToClient: true,
		Subdialogs: []*dialogs.StateMap{
			{Version: "1.0", Name: "send_message", Result: &dialogs.ResultMap{ReturnValue: nil}},
		},
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	m := sampleMap()
	raw, err := JSON.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := JSON.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(m, decoded) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", decoded, m)
	}
}

func TestMsgPackCodecRoundTrip(t *testing.T) {
	m := sampleMap()
	raw, err := MsgPack.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := MsgPack.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(m, decoded) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", decoded, m)
	}
}

func TestMsgPackIsMoreCompactThanJSON(t *testing.T) {
	m := sampleMap()
	jsonRaw, err := JSON.Encode(m)
	if err != nil {
		t.Fatalf("JSON Encode: %v", err)
	}
	packRaw, err := MsgPack.Encode(m)
	if err != nil {
		t.Fatalf("MsgPack Encode: %v", err)
	}
	if len(packRaw) >= len(jsonRaw) {
		t.Errorf("msgpack encoding (%d bytes) not smaller than JSON (%d bytes)", len(packRaw), len(jsonRaw))
	}
}
