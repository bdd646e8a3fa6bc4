package student

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
)

func TestForm_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	tests := []struct {
		name       string
		form       Form
		want       Student
		wantFields []string
	}{
		{
			name: "valid",
			form: Form{ID: " 1 ", Name: " Ann ", ClassName: "5A", Birthdate: "2010-01-01"},
			want: Student{ID: 1, Name: "Ann", ClassName: "5A", Birthdate: "2010-01-01"},
		},
		{name: "all empty", form: Form{}, wantFields: []string{"student_id", "name", "class_", "birthdate"}},
		{name: "blank name", form: Form{ID: "1", Name: "   ", ClassName: "5A", Birthdate: "2010-01-01"}, wantFields: []string{"name"}},
		{name: "id not a number", form: Form{ID: "x1", Name: "Ann", ClassName: "5A", Birthdate: "2010-01-01"}, wantFields: []string{"student_id"}},
		{name: "zero id", form: Form{ID: "0", Name: "Ann", ClassName: "5A", Birthdate: "2010-01-01"}, wantFields: []string{"student_id"}},
		{name: "negative id", form: Form{ID: "-4", Name: "Ann", ClassName: "5A", Birthdate: "2010-01-01"}, wantFields: []string{"student_id"}},
		{name: "bad date", form: Form{ID: "1", Name: "Ann", ClassName: "5A", Birthdate: "01/01/2010"}, wantFields: []string{"birthdate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.Validate(validate)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			err = core.TranslateValidationErrors(err, translator)
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "want *core.ValidationError, got %T", err)
			fields := make([]string, 0, len(vErr.Fields))
			for _, fld := range vErr.Fields {
				fields = append(fields, fld.Field)
				assert.NotEmpty(t, fld.Error)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestFormFromValues(t *testing.T) {
	v := url.Values{"student_id": {"7"}, "name": {"Bob"}, "class_": {"6B"}, "birthdate": {"2011-02-03"}}
	assert.Equal(t, Form{ID: "7", Name: "Bob", ClassName: "6B", Birthdate: "2011-02-03"}, FormFromValues(v))

	s := Student{ID: 7, Name: "Bob", ClassName: "6B", Birthdate: "2011-02-03"}
	assert.Equal(t, FormFromValues(v), FormFromStudent(s))
}

func TestForm_ValidateUpdate(t *testing.T) {
	validate, translator := core.NewValidator()

	// the row id is the backend key, whatever was submitted
	f := Form{ID: "abc", Name: " Ann Lee ", ClassName: "6A", Birthdate: "2010-01-01"}
	got, err := f.ValidateUpdate(validate, 0)
	require.NoError(t, err)
	assert.Equal(t, Student{ID: 0, Name: "Ann Lee", ClassName: "6A", Birthdate: "2010-01-01"}, got)

	f = Form{Name: "Ann", ClassName: "", Birthdate: "2010-13-01"}
	_, err = f.ValidateUpdate(validate, 4)
	vErr, ok := core.TranslateValidationErrors(err, translator).(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	fields := make([]string, 0, len(vErr.Fields))
	for _, fld := range vErr.Fields {
		fields = append(fields, fld.Field)
	}
	assert.ElementsMatch(t, []string{"class_", "birthdate"}, fields)
}
