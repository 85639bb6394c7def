package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"esgboard/internal/dto"
	"esgboard/internal/models"
)

func TestSeedQuestionsUpserts(t *testing.T) {
	db, err := OpenMemory(zap.NewNop())
	require.NoError(t, err)

	bank, err := models.ParseQuestionBank([]byte(`
questions:
  - code: Q1
    section: WATER
    type: numeric
    name: {en: Water, vi: Nước}
  - code: Q2
    section: WATER
    type: choice
    name: {en: Pick}
    options: {en: [a, b]}
`))
	require.NoError(t, err)
	require.NoError(t, SeedQuestions(db, bank, zap.NewNop()))

	bank.Questions[0].Name.En = "Water used"
	require.NoError(t, SeedQuestions(db, bank, zap.NewNop()))

	var questions []models.Question
	require.NoError(t, db.Order("position").Find(&questions).Error)
	require.Len(t, questions, 2)
	assert.Equal(t, "Water used", questions[0].NameEn)
	assert.Equal(t, dto.TypeChoice, questions[1].Type)
	assert.Equal(t, []string{"a", "b"}, questions[1].OptionsEn)
	assert.Equal(t, 1, questions[1].Position)
}

func TestShippedQuestionBankIsValid(t *testing.T) {
	data, err := os.ReadFile("../../config/questions.yaml")
	require.NoError(t, err)
	bank, err := models.ParseQuestionBank(data)
	require.NoError(t, err)
	questions, err := bank.Models()
	require.NoError(t, err)
	assert.NotEmpty(t, questions)

	byCode := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		assert.NotEmpty(t, q.NameEn, q.Code)
		assert.NotEmpty(t, q.NameVi, q.Code)
		byCode[q.Code] = q
	}
	assert.Equal(t, "Is the company publicly listed?", byCode["GI_LISTED"].NameEn)

	db, err := OpenMemory(zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, SeedQuestions(db, bank, zap.NewNop()))
}
