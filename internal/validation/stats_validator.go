package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/storage"
)

// StatsValidator checks raw stats files against the stats database schema
type StatsValidator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

// NewStatsValidator compiles the stats schema
func NewStatsValidator() (*StatsValidator, error) {
	classes := make([]interface{}, 0, len(domain.AvailableClasses)+1)
	classes = append(classes, nil)
	for _, c := range domain.AvailableClasses {
		classes = append(classes, c.String())
	}
	enum, err := json.Marshal(classes)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuildSchema, err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(fmt.Sprintf(statsSchema, enum)))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuildSchema, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf(ErrMsgCompileSchema, err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCompileSchema, err)
	}

	return &StatsValidator{
		schema:  schema,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Validate checks the JSON content of a stats file
func (v *StatsValidator) Validate(data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf(ErrMsgParseData, err)
	}

	if err := v.schema.Validate(inst); err != nil {
		return v.formatError(err)
	}
	return nil
}

// ValidateFile checks a stats file or gzip snapshot on disk
func (v *StatsValidator) ValidateFile(path string) error {
	data, err := storage.ReadFile(path)
	if err != nil {
		return err
	}
	return v.Validate(data)
}

// formatError flattens a validation error tree into one line per failed keyword
func (v *StatsValidator) formatError(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	var lines []string
	v.collectLeaves(verr, &lines)
	return fmt.Errorf(ErrMsgSchemaViolation, strings.Join(lines, "\n"))
}

func (v *StatsValidator) collectLeaves(err *jsonschema.ValidationError, lines *[]string) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			v.collectLeaves(cause, lines)
		}
		return
	}
	*lines = append(*lines, v.formatLeaf(err))
}

func (v *StatsValidator) formatLeaf(err *jsonschema.ValidationError) string {
	location := "(root)"
	if len(err.InstanceLocation) > 0 {
		location = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind == nil {
		return fmt.Sprintf("  - at %s: validation failed", location)
	}

	keyword := strings.Join(err.ErrorKind.KeywordPath(), ".")
	detail := err.ErrorKind.LocalizedString(v.printer)
	if keyword == "" {
		return fmt.Sprintf("  - at %s: %s", location, detail)
	}
	return fmt.Sprintf("  - at %s: %s: %s", location, keyword, detail)
}
