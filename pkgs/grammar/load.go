package grammar

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

//go:embed grammar.schema.json
var schemaJSON string

const schemaURL = "schema://grammar.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(interface{}) bool)
	}
	compiler.Formats["semver"] = isSemver

	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// isSemver accepts versions with or without the leading "v"
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true // type validation happens separately
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return semver.IsValid(s)
}

// Parse validates a YAML grammar and builds it
func Parse(data []byte) (*Grammar, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, clherrors.NewGrammarError("cannot decode grammar", err)
	}
	return Build(&file)
}

// Validate checks a YAML grammar against the grammar schema
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return clherrors.NewGrammarError("cannot compile grammar schema", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return clherrors.NewGrammarError("cannot decode grammar", err)
	}

	// The validator expects JSON values; round trip so numbers become json.Number
	raw, err := json.Marshal(doc)
	if err != nil {
		return clherrors.NewGrammarError("cannot decode grammar", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return clherrors.NewGrammarError("cannot decode grammar", err)
	}

	if err := schema.Validate(value); err != nil {
		return clherrors.NewGrammarError("grammar does not match schema", err)
	}
	return nil
}
