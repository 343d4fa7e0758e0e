package ttesting

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSON checks doc against the schema file at schemaPath and returns
// the decoded document.
func ValidateJSON(t *testing.T, schemaPath string, doc []byte) any {
	t.Helper()
	s, err := jsonschema.Compile(schemaPath)
	if err != nil {
		t.Fatalf("compile %s: %v", schemaPath, err)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, doc)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("validate against %s: %v\n%s", schemaPath, err, doc)
	}
	return v
}
