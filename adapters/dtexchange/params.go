package dtexchange

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// partnerSettingsSchema constrains the placement parameters configured in the
// mediation dashboard. Anything outside this shape would silently change the
// bid request, so unknown keys are rejected.
const partnerSettingsSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "title": "DT Exchange placement parameters",
  "type": "object",
  "properties": {
    "bid_floor": {
      "type": "number",
      "minimum": 0,
      "description": "Minimum acceptable CPM for the placement."
    },
    "muted": {
      "type": "boolean",
      "description": "Start video creatives muted."
    }
  },
  "additionalProperties": false
}`

type paramsValidator struct {
	schema *gojsonschema.Schema
}

func newParamsValidator() (*paramsValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(partnerSettingsSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load the partner settings schema: %v", err)
	}
	return &paramsValidator{schema: schema}, nil
}

// partnerSettings are the validated placement parameters.
type partnerSettings struct {
	BidFloor float64 `json:"bid_floor"`
	Muted    bool    `json:"muted"`
}

// validate parses and checks raw placement parameters. Absent parameters are
// valid and yield the zero settings.
func (v *paramsValidator) validate(raw json.RawMessage) (partnerSettings, error) {
	var settings partnerSettings
	if len(raw) == 0 {
		return settings, nil
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return settings, fmt.Errorf("partner settings are not valid JSON: %v", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, description := range result.Errors() {
			messages = append(messages, description.String())
		}
		return settings, fmt.Errorf("invalid partner settings: %s", strings.Join(messages, "; "))
	}

	if err := json.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse partner settings: %v", err)
	}
	return settings, nil
}
