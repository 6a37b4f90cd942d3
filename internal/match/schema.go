package match

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// filterSchema compiles #Filter once. Values of one cue.Context must not be
// used concurrently, so every use goes through schemaMu.
var (
	filterSchema = sync.OnceValues(func() (cue.Value, error) {
		schema := cuecontext.New().CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := schema.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("compile filter schema: %w", err)
		}
		return schema.LookupPath(cue.ParsePath("#Filter")), nil
	})
	schemaMu sync.Mutex
)

// ValidateDocument checks a YAML or JSON filter document against the
// embedded CUE schema.
//
// The schema enforces the oneof shape of every match (exactly one selector
// key), column name syntax, identifier syntax and the absence of unknown
// keys. Failures are reported as ErrCodeInvalidArgument with the CUE error
// details.
func ValidateDocument(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Errorf(ErrCodeInvalidArgument, "parse filter document: %v", err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return Errorf(ErrCodeInvalidArgument, "filter document is not JSON compatible: %v", err)
	}

	schema, err := filterSchema()
	if err != nil {
		return err
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	doc := schema.Context().CompileBytes(js, cue.Filename("filter.json"))
	if err := doc.Err(); err != nil {
		return Errorf(ErrCodeInvalidArgument, "load filter document: %s", cueerrors.Details(err, nil))
	}

	v := schema.Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Errorf(ErrCodeInvalidArgument, "filter document does not match schema: %s", cueerrors.Details(err, nil))
	}
	return nil
}
