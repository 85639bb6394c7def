package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgboard/internal/catalog"
	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/repository"
)

func TestFromAnswersBar(t *testing.T) {
	def, ok := catalog.Default().Chart("environment", "emission")
	require.True(t, ok)

	values := []repository.YearValue{
		{Year: 2022, QuestionCode: "EM_SCOPE1", Value: "10"},
		{Year: 2021, QuestionCode: "EM_SCOPE1", Value: "12"},
		{Year: 2022, QuestionCode: "EM_SCOPE2", Value: "4.5"},
		{Year: 2022, QuestionCode: "EM_SCOPE2", Value: "bad"},
	}
	chart, err := FromAnswers(def, i18n.EN, map[string]string{"EM_SCOPE1": "Scope 1"}, values)
	require.NoError(t, err)

	assert.Equal(t, "emission", chart.Key)
	assert.Equal(t, []string{"2021", "2022"}, chart.Labels)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "Scope 1", chart.Series[0].Name)
	assert.Equal(t, []float64{12, 10}, chart.Series[0].Values)
	assert.Equal(t, "EM_SCOPE2", chart.Series[1].Name)
	assert.Equal(t, []float64{0, 4.5}, chart.Series[1].Values)

	raw, err := json.Marshal(chart.Options)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"bar"`)
}

func TestFromAnswersPieUsesLatestYear(t *testing.T) {
	def, ok := catalog.Default().Chart("social", "sex-ratio")
	require.True(t, ok)
	values := []repository.YearValue{
		{Year: 2021, QuestionCode: "EO_MALE", Value: "1"},
		{Year: 2023, QuestionCode: "EO_MALE", Value: "30"},
		{Year: 2023, QuestionCode: "EO_FEMALE", Value: "70"},
	}
	chart, err := FromAnswers(def, i18n.EN, nil, values)
	require.NoError(t, err)
	assert.Equal(t, []string{"EO_MALE", "EO_FEMALE"}, chart.Labels)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, []float64{30, 70}, chart.Series[0].Values)
	assert.Contains(t, chart.Title, "2023")
}

func TestFromAnswersEmpty(t *testing.T) {
	def, ok := catalog.Default().Chart("governance", "violate")
	require.True(t, ok)
	chart, err := FromAnswers(def, i18n.VI, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, chart.Labels)
	require.Len(t, chart.Series, 2)
	assert.Empty(t, chart.Series[0].Values)
	assert.NotNil(t, chart.Options)
}

func TestScoreCharts(t *testing.T) {
	scores := []dto.YearScore{
		{Year: 2022, Environmental: 0.5, Social: 0.25, Governance: 0.125, ESG: 0.3},
		{Year: 2023, Environmental: 0.75, Social: 0.5, Governance: 0.5, ESG: 0.6},
	}
	over := ScoresOverTime(i18n.EN, scores)
	assert.Equal(t, []string{"2022", "2023"}, over.Labels)
	require.Len(t, over.Series, 4)
	assert.Equal(t, []float64{30, 60}, over.Series[3].Values)

	prop := ScoreProportion(i18n.EN, scores[1])
	require.Len(t, prop.Series, 1)
	assert.Equal(t, []float64{75, 50, 50}, prop.Series[0].Values)
	assert.Len(t, prop.Labels, 3)
}
