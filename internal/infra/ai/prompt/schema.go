package prompt

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
)

// FixedSchema constrains output for the fixed profile: category is one of
// the nine known categories.
func FixedSchema() jsonschema.Definition {
	cats := make([]string, 0, len(analysis.FixedCategories))
	for _, c := range analysis.FixedCategories {
		cats = append(cats, string(c))
	}
	return resultSchema(jsonschema.Definition{Type: jsonschema.String, Enum: cats}, false)
}

// DynamicSchema: free-form category, plus platform and contentType.
func DynamicSchema() jsonschema.Definition {
	return resultSchema(jsonschema.Definition{Type: jsonschema.String}, true)
}

func resultSchema(category jsonschema.Definition, withSource bool) jsonschema.Definition {
	severities := make([]string, 0, len(analysis.Severities))
	for _, s := range analysis.Severities {
		severities = append(severities, string(s))
	}

	redFlag := jsonschema.Definition{
		Type:                 jsonschema.Object,
		AdditionalProperties: false,
		Properties: map[string]jsonschema.Definition{
			"category": category,
			"severity": {Type: jsonschema.String, Enum: severities},
			"evidence": {Type: jsonschema.String},
			"analysis": {Type: jsonschema.String},
		},
		Required: []string{"category", "severity", "evidence", "analysis"},
	}

	props := map[string]jsonschema.Definition{
		"isValid":           {Type: jsonschema.Boolean},
		"validationMessage": {Type: jsonschema.String},
		"redFlags":          {Type: jsonschema.Array, Items: &redFlag},
		"overallScore":      {Type: jsonschema.Number},
		"summary":           {Type: jsonschema.String},
	}
	required := []string{"isValid", "validationMessage", "redFlags", "overallScore", "summary"}

	if withSource {
		platforms := make([]string, 0, len(analysis.Platforms))
		for _, p := range analysis.Platforms {
			platforms = append(platforms, string(p))
		}
		contentTypes := make([]string, 0, len(analysis.ContentTypes))
		for _, c := range analysis.ContentTypes {
			contentTypes = append(contentTypes, string(c))
		}
		props["platform"] = jsonschema.Definition{Type: jsonschema.String, Enum: platforms}
		props["contentType"] = jsonschema.Definition{Type: jsonschema.String, Enum: contentTypes}
		required = append(required, "platform", "contentType")
	}

	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		AdditionalProperties: false,
		Properties:           props,
		Required:             required,
	}
}
