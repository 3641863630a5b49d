// Package schema validates scenario documents against an embedded CUE
// schema before they reach the YAML decoder's struct mapping.
//
// The CUE layer catches structural mistakes (wrong types, misspelled
// assertion types, negative counts) with field-level positions, which the
// strict YAML decode alone cannot report as precisely.
package schema

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// scenarioSchema is the CUE definition of the scenario file format. It
// mirrors harness.Scenario; the two must change together.
const scenarioSchema = `
#Scenario: {
	name:        string & !=""
	description: string & !=""
	seed?:       #Seed
	session_tokens?: [...string]
	actions: [#Action, ...#Action]
	assertions: [#Assertion, ...#Assertion]
}

#Seed: {
	records?: {[string]: {...}}
	lists?: {[string]: [...string]}
	presence?: [...string]
	entity_errors?: {[string]: string}
	write_errors?: {[string]: string}
	rpc_errors?: {[string]: string}
	reject_login?: bool
}

#Action: {
	action: string & !=""
	...
}

#Assertion: {
	type: "stream_contains" | "stream_order" | "stream_count"
	kind?:  string
	name?:  string
	scope?: string
	error?: string
	count?: int & >=0
	kinds?: [...string]
}
`

// ValidationError is one schema violation, with the offending field path
// when CUE can attribute one.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidateBytes parses YAML and validates the document against the
// scenario schema. Returns all violations found (does not fail-fast).
func ValidateBytes(data []byte) []ValidationError {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationError{{Message: fmt.Sprintf("failed to parse YAML: %v", err)}}
	}
	return ValidateDoc(doc)
}

// ValidateDoc validates a decoded scenario document against the schema.
func ValidateDoc(doc map[string]any) []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema)
	if err := schema.Err(); err != nil {
		// The schema is a compile-time constant; failing to compile it is
		// a programming error, not a user input problem.
		panic(fmt.Sprintf("scenario schema does not compile: %v", err))
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	unified := def.Unify(ctx.Encode(doc))

	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		var path []string
		for _, p := range e.Path() {
			path = append(path, p)
		}
		errs = append(errs, ValidationError{
			Field:   strings.Join(path, "."),
			Message: e.Error(),
		})
	}
	return errs
}
