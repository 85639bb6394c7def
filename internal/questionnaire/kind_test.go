package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgboard/internal/dto"
)

func TestKindParse(t *testing.T) {
	tests := []struct {
		name    string
		kind    AnswerKind
		raw     string
		want    any
		wantErr bool
	}{
		{"boolean yes", BooleanKind{}, "1", "1", false},
		{"boolean no", BooleanKind{}, " 2 ", "2", false},
		{"boolean out of range", BooleanKind{}, "3", nil, true},
		{"choice in range", ChoiceKind{Options: 4}, "4", "4", false},
		{"choice zero", ChoiceKind{Options: 4}, "0", nil, true},
		{"choice text", ChoiceKind{Options: 4}, "two", nil, true},
		{"numeric", NumericKind{}, "42.5", 42.5, false},
		{"numeric negative", NumericKind{}, "-3", -3.0, false},
		{"numeric nan", NumericKind{}, "NaN", nil, true},
		{"blank clears", NumericKind{}, "  ", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.kind.Parse(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAnswer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindFromStored(t *testing.T) {
	v, ok := ChoiceKind{}.FromStored(float64(2))
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = ChoiceKind{}.FromStored(2.5)
	assert.False(t, ok)

	v, ok = NumericKind{}.FromStored("12.25")
	assert.True(t, ok)
	assert.Equal(t, 12.25, v)

	_, ok = NumericKind{}.FromStored(true)
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, dto.TypeBoolean, KindOf(dto.Question{Type: dto.TypeBoolean}).Type())
	assert.Equal(t, dto.TypeNumeric, KindOf(dto.Question{Type: dto.TypeNumeric}).Type())
	assert.Equal(t, ChoiceKind{Options: 2}, KindOf(dto.Question{Type: dto.TypeChoice, Options: []string{"a", "b"}}))
}
