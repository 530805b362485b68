package host

import (
	"fmt"

	"github.com/smnsjas/go-pshost/objects"
)

// convertToProgressRecord converts a ProgressRecord parameter.
// Engines hand over either a typed record or a property map.
func convertToProgressRecord(obj interface{}) (*objects.ProgressRecord, error) {
	var props map[string]interface{}

	switch v := obj.(type) {
	case *objects.ProgressRecord:
		if v == nil {
			return nil, fmt.Errorf("nil ProgressRecord")
		}
		return v, nil
	case objects.ProgressRecord:
		return &v, nil
	case map[string]interface{}:
		props = v
	default:
		return nil, fmt.Errorf("expected ProgressRecord or map, got %T", obj)
	}

	record := &objects.ProgressRecord{
		ActivityID:        intProp(props, "ActivityId", 0),
		ParentActivityID:  intProp(props, "ParentActivityId", -1),
		Activity:          stringProp(props, "Activity"),
		StatusDescription: stringProp(props, "StatusDescription"),
		CurrentOperation:  stringProp(props, "CurrentOperation"),
		PercentComplete:   intProp(props, "PercentComplete", -1),
		SecondsRemaining:  intProp(props, "SecondsRemaining", -1),
		RecordType:        objects.ProgressRecordType(intProp(props, "RecordType", int(objects.ProgressRecordTypeProcessing))),
	}
	return record, nil
}

// convertToFieldDescriptions converts the Prompt descriptions parameter.
func convertToFieldDescriptions(obj interface{}) ([]FieldDescription, error) {
	switch v := obj.(type) {
	case nil:
		return nil, nil
	case []FieldDescription:
		return v, nil
	case []interface{}:
		out := make([]FieldDescription, 0, len(v))
		for i, item := range v {
			props, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("field description %d must be a map, got %T", i, item)
			}
			out = append(out, FieldDescription{
				Name:                  stringProp(props, "Name"),
				Label:                 stringProp(props, "Label"),
				ParameterTypeName:     stringProp(props, "ParameterTypeName"),
				ParameterTypeFullName: stringProp(props, "ParameterTypeFullName"),
				HelpMessage:           stringProp(props, "HelpMessage"),
				DefaultValue:          stringProp(props, "DefaultValue"),
				IsMandatory:           boolProp(props, "IsMandatory"),
			})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected field descriptions, got %T", obj)
	}
}

// convertToChoiceDescriptions converts the PromptForChoice choices parameter.
func convertToChoiceDescriptions(obj interface{}) ([]ChoiceDescription, error) {
	switch v := obj.(type) {
	case nil:
		return nil, nil
	case []ChoiceDescription:
		return v, nil
	case []interface{}:
		out := make([]ChoiceDescription, 0, len(v))
		for i, item := range v {
			props, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("choice description %d must be a map, got %T", i, item)
			}
			out = append(out, ChoiceDescription{
				Label:       stringProp(props, "Label"),
				HelpMessage: stringProp(props, "HelpMessage"),
			})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected choice descriptions, got %T", obj)
	}
}

func stringProp(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}

func boolProp(props map[string]interface{}, key string) bool {
	b, _ := props[key].(bool)
	return b
}

func intProp(props map[string]interface{}, key string, def int) int {
	switch v := props[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return def
	}
}
