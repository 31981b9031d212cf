package marks

import (
	"testing"

	"hillview-school/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compositeSubject() *models.Subject {
	return &models.Subject{
		ID:          "subj-1",
		Name:        "English",
		Code:        "ENG",
		IsComposite: true,
		Components: []*models.Component{
			{ID: "comp-lang", Name: "Language", MaxMark: 60},
			{ID: "comp-comp", Name: "Composition", MaxMark: 40},
		},
	}
}

func TestSheetHeaders(t *testing.T) {
	t.Run("composite subject gets one column per component", func(t *testing.T) {
		headers := sheetHeaders(compositeSubject())
		assert.Equal(t, []string{"Student ID", "Admission Number", "Name", "Language (/60)", "Composition (/40)"}, headers)
	})

	t.Run("simple subject gets a single mark column", func(t *testing.T) {
		headers := sheetHeaders(&models.Subject{ID: "subj-2", Name: "Mathematics", Code: "MATH"})
		assert.Equal(t, []string{"Student ID", "Admission Number", "Name", "Mark (/100)"}, headers)
	})
}

func TestParseMarkRow(t *testing.T) {
	subject := compositeSubject()

	t.Run("parses composite scores", func(t *testing.T) {
		row := []string{"student-1", "HV-1001", "Jane Wanjiku", "45", "30"}
		mark, err := parseMarkRow(row, subject, "term-1", "at-1")
		require.NoError(t, err)
		require.NotNil(t, mark)
		require.Len(t, mark.Components, 2)
		assert.Equal(t, "comp-lang", mark.Components[0].ComponentID)
		assert.Equal(t, 45.0, mark.Components[0].RawMark)
		assert.Equal(t, "comp-comp", mark.Components[1].ComponentID)
		assert.Equal(t, 30.0, mark.Components[1].RawMark)
	})

	t.Run("blank row is skipped not zeroed", func(t *testing.T) {
		row := []string{"student-1", "HV-1001", "Jane Wanjiku", "", ""}
		mark, err := parseMarkRow(row, subject, "term-1", "at-1")
		require.NoError(t, err)
		assert.Nil(t, mark)
	})

	t.Run("partial composite row is rejected", func(t *testing.T) {
		row := []string{"student-1", "HV-1001", "Jane Wanjiku", "45", ""}
		_, err := parseMarkRow(row, subject, "term-1", "at-1")
		assert.Error(t, err)
	})

	t.Run("non numeric score is rejected", func(t *testing.T) {
		row := []string{"student-1", "HV-1001", "Jane Wanjiku", "forty", "30"}
		_, err := parseMarkRow(row, subject, "term-1", "at-1")
		assert.Error(t, err)
	})

	t.Run("missing student id is rejected", func(t *testing.T) {
		row := []string{"", "HV-1001", "Jane Wanjiku", "45", "30"}
		_, err := parseMarkRow(row, subject, "term-1", "at-1")
		assert.Error(t, err)
	})

	t.Run("simple subject uses the single mark column", func(t *testing.T) {
		simple := &models.Subject{ID: "subj-2", Name: "Mathematics", Code: "MATH"}
		row := []string{"student-1", "HV-1001", "Jane Wanjiku", "78"}
		mark, err := parseMarkRow(row, simple, "term-1", "at-1")
		require.NoError(t, err)
		require.NotNil(t, mark)
		assert.Equal(t, 78.0, mark.RawMark)
		assert.Equal(t, 100.0, mark.MaxRawMark)
		assert.Empty(t, mark.Components)
	})

	t.Run("short row is padded with blanks", func(t *testing.T) {
		simple := &models.Subject{ID: "subj-2", Name: "Mathematics", Code: "MATH"}
		row := []string{"student-1"}
		mark, err := parseMarkRow(row, simple, "term-1", "at-1")
		require.NoError(t, err)
		assert.Nil(t, mark)
	})
}
