package dialogschema

import "testing"

const nameSchema = `{
	"type": "object",
	"properties": { "name": { "type": "string", "minLength": 1 } },
	"required": ["name"]
}`

func TestValidateAcceptsConformingResponse(t *testing.T) {
	s, err := Compile("name.json", []byte(nameSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := s.Validate([]byte(`{"name": "Johnny"}`)); err != nil {
		t.Errorf("Validate rejected a conforming response: %v", err)
	}
}

func TestValidateRejectsNonConformingResponse(t *testing.T) {
	s, err := Compile("name.json", []byte(nameSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := s.Validate([]byte(`{"name": ""}`)); err == nil {
		t.Error("Validate accepted an empty name, want rejection")
	}
	if err := s.Validate([]byte(`{}`)); err == nil {
		t.Error("Validate accepted a missing required field, want rejection")
	}
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	s, err := Compile("name.json", []byte(nameSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := s.Validate([]byte(`not json`)); err == nil {
		t.Error("Validate accepted malformed JSON")
	}
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	if _, err := Compile("broken.json", []byte(`{not valid json`)); err == nil {
		t.Error("Compile accepted an invalid schema document")
	}
}
