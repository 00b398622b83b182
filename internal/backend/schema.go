package backend

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// analysisSchema is the contract of POST /api/documents/analyze-rpa responses
var analysisSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["success"],
	"properties": {
		"success":    {"type": "boolean"},
		"mappedData": {"type": ["object", "null"]},
		"message":    {"type": ["string", "null"]}
	}
}`)

func validateAnalysis(raw []byte) error {
	result, err := gojsonschema.Validate(analysisSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: analysis response: %s", ErrInvalidResponse, strings.Join(errs, "; "))
	}
	return nil
}
