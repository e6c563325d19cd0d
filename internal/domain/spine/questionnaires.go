package spine

import (
	"fmt"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
)

// Questionnaire instance names, all at version 1.
const (
	QuestionnaireMhs                    = "spine_mhs"
	QuestionnaireMhsMessageSets         = "spine_mhs_message_sets"
	QuestionnaireAs                     = "spine_as"
	QuestionnaireAsAdditionalInteracts  = "spine_as_additional_interactions"
	questionnaireVersion                = "1"
	QuestionnaireMhsID                  = QuestionnaireMhs + "/" + questionnaireVersion
	QuestionnaireMhsMessageSetsID       = QuestionnaireMhsMessageSets + "/" + questionnaireVersion
	QuestionnaireAsID                   = QuestionnaireAs + "/" + questionnaireVersion
	QuestionnaireAsAdditionalInteractID = QuestionnaireAsAdditionalInteracts + "/" + questionnaireVersion
)

// Catalog is the static set of spine questionnaire instances and their field
// mappings. Mappings are validated at construction so the modification
// routing never meets an ambiguous field at runtime.
type Catalog struct {
	questionnaires map[string]model.Questionnaire
	fieldMappings  map[string]model.FieldMapping
}

// NewCatalog builds the embedded spine questionnaire catalog.
func NewCatalog() (*Catalog, error) {
	catalog := &Catalog{
		questionnaires: make(map[string]model.Questionnaire),
		fieldMappings:  make(map[string]model.FieldMapping),
	}

	for name, definition := range map[string]struct {
		questions []model.Question
		mapping   map[string]string
	}{
		QuestionnaireMhs:                   {mhsDeviceQuestions(), mhsDeviceFieldMapping()},
		QuestionnaireMhsMessageSets:        {messageSetQuestions(), messageSetFieldMapping()},
		QuestionnaireAs:                    {accreditedSystemQuestions(), accreditedSystemFieldMapping()},
		QuestionnaireAsAdditionalInteracts: {additionalInteractionsQuestions(), additionalInteractionsFieldMapping()},
	} {
		questionnaire := model.NewQuestionnaire(name, questionnaireVersion, definition.questions)

		mapping, err := model.NewFieldMapping(definition.mapping)
		if err != nil {
			return nil, fmt.Errorf("building field mapping for %s: %w", name, err)
		}
		for external, internal := range definition.mapping {
			if _, ok := questionnaire.Questions[internal]; !ok {
				return nil, fmt.Errorf(
					"field mapping for %s routes '%s' to unknown question '%s'", name, external, internal)
			}
		}

		catalog.questionnaires[name] = questionnaire
		catalog.fieldMappings[name] = mapping
	}

	return catalog, nil
}

// Read returns the questionnaire instance with the given name.
func (c *Catalog) Read(name string) (model.Questionnaire, error) {
	questionnaire, ok := c.questionnaires[name]
	if !ok {
		return model.Questionnaire{}, fmt.Errorf("%w: %s", model.ErrQuestionnaireNotFound, name)
	}

	return questionnaire, nil
}

// ReadFieldMapping returns the external-to-internal field mapping for the
// questionnaire instance with the given name.
func (c *Catalog) ReadFieldMapping(name string) (model.FieldMapping, error) {
	mapping, ok := c.fieldMappings[name]
	if !ok {
		return model.FieldMapping{}, fmt.Errorf("%w: %s", model.ErrQuestionnaireNotFound, name)
	}

	return mapping, nil
}

func mhsDeviceQuestions() []model.Question {
	return []model.Question{
		{Name: FieldNameAddress, Mandatory: true},
		{Name: FieldNameMhsFqdn, Mandatory: true},
		{Name: FieldNamePartyKey, Mandatory: true},
		{Name: FieldNameManufacturerOrg, Mandatory: true},
		{Name: FieldNameOdsCode, Mandatory: true},
		{Name: "Managing Organization"},
		{Name: "Product Name"},
		{Name: "Product Version"},
		{Name: "Approver URP", Mandatory: true},
		{Name: "DNS Approver", Mandatory: true},
		{Name: "Requestor URP", Mandatory: true},
		{Name: "Date Approved", Mandatory: true},
		{Name: "Date Requested", Mandatory: true},
		{Name: "Date DNS Approved"},
		{Name: "MHS Service Description"},
		{Name: "Binding"},
	}
}

func mhsDeviceFieldMapping() map[string]string {
	return map[string]string{
		"nhs_approver_urp":            "Approver URP",
		"nhs_date_approved":           "Date Approved",
		"nhs_date_dns_approved":       "Date DNS Approved",
		"nhs_date_requested":          "Date Requested",
		"nhs_dns_approver":            "DNS Approver",
		"nhs_requestor_urp":           "Requestor URP",
		"nhs_id_code":                 FieldNameOdsCode,
		"nhs_mhs_end_point":           FieldNameAddress,
		"nhs_mhs_fqdn":                FieldNameMhsFqdn,
		"nhs_mhs_manufacturer_org":    FieldNameManufacturerOrg,
		"nhs_mhs_party_key":           FieldNamePartyKey,
		"nhs_product_name":            "Product Name",
		"nhs_product_version":         "Product Version",
		"nhs_mhs_service_description": "MHS Service Description",
		"binding":                     "Binding",
	}
}

func messageSetQuestions() []model.Question {
	return []model.Question{
		{Name: FieldNameCpaID, Mandatory: true},
		{Name: FieldNameUniqueIdentifier, Mandatory: true},
		{Name: FieldNameInteractionID, Mandatory: true},
		{Name: "MHS SN", Mandatory: true},
		{Name: "MHS IN", Mandatory: true},
		{Name: "Reliability Configuration Retries"},
		{Name: "Reliability Configuration Retry Interval"},
		{Name: "Reliability Configuration Persist Duration"},
	}
}

func messageSetFieldMapping() map[string]string {
	return map[string]string{
		"nhs_mhs_cpa_id":           FieldNameCpaID,
		"unique_identifier":        FieldNameUniqueIdentifier,
		"nhs_mhs_svc_ia":           FieldNameInteractionID,
		"nhs_mhs_sn":               "MHS SN",
		"nhs_mhs_in":               "MHS IN",
		"nhs_mhs_retries":          "Reliability Configuration Retries",
		"nhs_mhs_retry_interval":   "Reliability Configuration Retry Interval",
		"nhs_mhs_persist_duration": "Reliability Configuration Persist Duration",
	}
}

func accreditedSystemQuestions() []model.Question {
	return []model.Question{
		{Name: FieldNameAsid, Mandatory: true},
		{Name: FieldNameOdsCode, Mandatory: true},
		{Name: FieldNamePartyKey, Mandatory: true},
		{Name: FieldNameManufacturerOrg, Mandatory: true},
		{Name: "Client ODS Codes", Mandatory: true, Multiple: true},
		{Name: "Product Key", Mandatory: true},
		{Name: "Product Name", Mandatory: true},
		{Name: "Product Version", Mandatory: true},
		{Name: "Approver URP", Mandatory: true},
		{Name: "Requestor URP", Mandatory: true},
		{Name: "Date Approved", Mandatory: true},
		{Name: "Date Requested", Mandatory: true},
		{Name: "Temp UID", Mandatory: true},
		{Name: "Description"},
		{Name: "AS ACF", Multiple: true},
		{Name: "AS Category Bag", Multiple: true},
	}
}

func accreditedSystemFieldMapping() map[string]string {
	return map[string]string{
		"unique_identifier":        FieldNameAsid,
		"nhs_id_code":              FieldNameOdsCode,
		"nhs_mhs_party_key":        FieldNamePartyKey,
		"nhs_mhs_manufacturer_org": FieldNameManufacturerOrg,
		"nhs_as_client":            "Client ODS Codes",
		"nhs_product_key":          "Product Key",
		"nhs_product_name":         "Product Name",
		"nhs_product_version":      "Product Version",
		"nhs_approver_urp":         "Approver URP",
		"nhs_requestor_urp":        "Requestor URP",
		"nhs_date_approved":        "Date Approved",
		"nhs_date_requested":       "Date Requested",
		"nhs_temp_uid":             "Temp UID",
		"description":              "Description",
		"nhs_as_acf":               "AS ACF",
		"nhs_as_category_bag":      "AS Category Bag",
	}
}

func additionalInteractionsQuestions() []model.Question {
	return []model.Question{
		{Name: FieldNameInteractionID, Mandatory: true},
	}
}

func additionalInteractionsFieldMapping() map[string]string {
	return map[string]string{
		"nhs_as_svc_ia": FieldNameInteractionID,
	}
}
