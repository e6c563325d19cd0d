package spine_test

import (
	"testing"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := spine.NewCatalog()
	require.NoError(t, err)
	require.NotNil(t, catalog)
}

func TestCatalogRead(t *testing.T) {
	t.Parallel()

	catalog, err := spine.NewCatalog()
	require.NoError(t, err)

	names := []string{
		spine.QuestionnaireMhs,
		spine.QuestionnaireMhsMessageSets,
		spine.QuestionnaireAs,
		spine.QuestionnaireAsAdditionalInteracts,
	}
	for _, name := range names {
		questionnaire, err := catalog.Read(name)
		require.NoError(t, err)
		require.Equal(t, name+"/1", questionnaire.ID())
		require.NotEmpty(t, questionnaire.Questions)
	}

	_, err = catalog.Read("spine_contact")
	require.ErrorIs(t, err, model.ErrQuestionnaireNotFound)
}

func TestCatalogReadFieldMapping(t *testing.T) {
	t.Parallel()

	catalog, err := spine.NewCatalog()
	require.NoError(t, err)

	mapping, err := catalog.ReadFieldMapping(spine.QuestionnaireMhs)
	require.NoError(t, err)

	internal, ok := mapping.Translate("nhs_mhs_fqdn")
	require.True(t, ok)
	require.Equal(t, spine.FieldNameMhsFqdn, internal)

	_, err = catalog.ReadFieldMapping("spine_contact")
	require.ErrorIs(t, err, model.ErrQuestionnaireNotFound)
}

func TestCatalogMappingsRouteToKnownQuestions(t *testing.T) {
	t.Parallel()

	catalog, err := spine.NewCatalog()
	require.NoError(t, err)

	names := []string{
		spine.QuestionnaireMhs,
		spine.QuestionnaireMhsMessageSets,
		spine.QuestionnaireAs,
		spine.QuestionnaireAsAdditionalInteracts,
	}
	for _, name := range names {
		questionnaire, err := catalog.Read(name)
		require.NoError(t, err)
		mapping, err := catalog.ReadFieldMapping(name)
		require.NoError(t, err)

		for internal := range questionnaire.Questions {
			external, ok := mapping.Reverse(internal)
			if !ok {
				continue
			}
			translated, ok := mapping.Translate(external)
			require.True(t, ok)
			require.Equal(t, internal, translated)
		}
	}
}

func TestCatalogImmutableFieldsAreRealQuestions(t *testing.T) {
	t.Parallel()

	catalog, err := spine.NewCatalog()
	require.NoError(t, err)

	mhs, err := catalog.Read(spine.QuestionnaireMhs)
	require.NoError(t, err)
	as, err := catalog.Read(spine.QuestionnaireAs)
	require.NoError(t, err)
	messageSets, err := catalog.Read(spine.QuestionnaireMhsMessageSets)
	require.NoError(t, err)

	for field := range spine.MhsImmutableFields {
		_, onDevice := mhs.Questions[field]
		_, onMessageSet := messageSets.Questions[field]
		require.True(t, onDevice || onMessageSet, field)
	}
	for field := range spine.AccreditedSystemImmutableFields {
		_, ok := as.Questions[field]
		require.True(t, ok, field)
	}
}
