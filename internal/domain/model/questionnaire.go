package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type (
	// Question is one named entry in a Questionnaire. Multi answers hold a
	// list of strings, single answers hold one string.
	Question struct {
		Name      string
		Mandatory bool
		Multiple  bool
	}

	// Questionnaire is a named, versioned question set. Validate is the only
	// way to obtain a QuestionnaireResponse.
	Questionnaire struct {
		Name      string
		Version   string
		Questions map[string]Question
	}

	// ResponseData maps a question name to its answer: a string for single
	// answer questions, a []string for multi answer questions.
	ResponseData map[string]any

	// QuestionnaireResponse is an immutable validated answer set. Changing a
	// response means removing it and adding a freshly validated one.
	QuestionnaireResponse struct {
		ID                   string
		QuestionnaireName    string
		QuestionnaireVersion string
		Data                 ResponseData
		CreatedOn            time.Time
	}
)

func NewQuestionnaire(name, version string, questions []Question) Questionnaire {
	byName := make(map[string]Question, len(questions))
	for _, q := range questions {
		byName[q.Name] = q
	}

	return Questionnaire{
		Name:      name,
		Version:   version,
		Questions: byName,
	}
}

// ID is the questionnaire instance identifier, "name/version".
func (q Questionnaire) ID() string {
	return q.Name + "/" + q.Version
}

// Validate checks data against the question set and returns a fresh
// QuestionnaireResponse holding a deep copy of the data.
func (q Questionnaire) Validate(data ResponseData) (QuestionnaireResponse, error) {
	for name := range data {
		if _, ok := q.Questions[name]; !ok {
			return QuestionnaireResponse{}, NewValidationError(
				"unexpected field '%s' for questionnaire '%s'", name, q.ID())
		}
	}

	for name, question := range q.Questions {
		value, present := data[name]
		if !present {
			if question.Mandatory {
				return QuestionnaireResponse{}, NewValidationError(
					"missing mandatory field '%s' for questionnaire '%s'", name, q.ID())
			}

			continue
		}

		switch v := value.(type) {
		case string:
			if question.Multiple {
				return QuestionnaireResponse{}, NewValidationError(
					"field '%s' for questionnaire '%s' expects a list of values", name, q.ID())
			}
			if question.Mandatory && v == "" {
				return QuestionnaireResponse{}, NewValidationError(
					"missing mandatory field '%s' for questionnaire '%s'", name, q.ID())
			}
		case []string:
			if !question.Multiple {
				return QuestionnaireResponse{}, NewValidationError(
					"field '%s' for questionnaire '%s' expects a single value", name, q.ID())
			}
			if question.Mandatory && len(v) == 0 {
				return QuestionnaireResponse{}, NewValidationError(
					"missing mandatory field '%s' for questionnaire '%s'", name, q.ID())
			}
		default:
			return QuestionnaireResponse{}, NewValidationError(
				"field '%s' for questionnaire '%s' has an unsupported value type", name, q.ID())
		}
	}

	return QuestionnaireResponse{
		ID:                   uuid.Must(uuid.NewV7()).String(),
		QuestionnaireName:    q.Name,
		QuestionnaireVersion: q.Version,
		Data:                 data.Copy(),
		CreatedOn:            time.Now().UTC(),
	}, nil
}

// Copy deep copies the data so responses never alias caller maps.
func (d ResponseData) Copy() ResponseData {
	out := make(ResponseData, len(d))
	for name, value := range d {
		if list, ok := value.([]string); ok {
			out[name] = append([]string(nil), list...)

			continue
		}
		out[name] = value
	}

	return out
}

// Values normalises a field's answer to a list: nil when absent, a
// single-element list for single answers, a copy of the list otherwise.
func (d ResponseData) Values(field string) []string {
	value, ok := d[field]
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}

		return []string{v}
	case []string:
		return append([]string(nil), v...)
	}

	return nil
}

// UnmarshalJSON decodes answers while keeping the string-or-list-of-strings
// invariant the rest of the domain relies on: generic JSON decoding would
// otherwise surface lists as []any.
func (d *ResponseData) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(ResponseData, len(raw))
	for name, value := range raw {
		list, ok := value.([]any)
		if !ok {
			out[name] = value

			continue
		}

		values := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("field %q holds a non-string list item", name)
			}
			values = append(values, s)
		}
		out[name] = values
	}
	*d = out

	return nil
}

// QuestionnaireID is the instance identifier of the questionnaire this
// response answers.
func (r QuestionnaireResponse) QuestionnaireID() string {
	return r.QuestionnaireName + "/" + r.QuestionnaireVersion
}
