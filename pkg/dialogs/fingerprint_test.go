package dialogs

import "testing"

func TestFingerprintStableForIdenticalStep(t *testing.T) {
	a := Fingerprint(Gen("name_getter_dialog", "1.0", nil))
	b := Fingerprint(Gen("name_getter_dialog", "1.0", nil))
	if a != b {
		t.Errorf("fingerprints differ for identical kind/name/version: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("len(fingerprint) = %d, want 16 hex chars (8 bytes)", len(a))
	}
}

func TestFingerprintDiffersByVersion(t *testing.T) {
	a := Fingerprint(Gen("name_getter_dialog", "1.0", nil))
	b := Fingerprint(Gen("name_getter_dialog", "1.1", nil))
	if a == b {
		t.Error("fingerprints match across different versions")
	}
}

func TestFingerprintDiffersBySendMessagePayload(t *testing.T) {
	a := Fingerprint(SendMessage("hello"))
	b := Fingerprint(SendMessage("goodbye"))
	if a == b {
		t.Error("fingerprints match for distinct send_message payloads")
	}
}
