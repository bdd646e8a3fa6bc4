package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core/score"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/core/subject"
)

func TestViewModel_Summary(t *testing.T) {
	vm := NewViewModel()
	vm.setStudents([]student.Student{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bob"}})
	vm.setSubjects([]subject.Subject{{ID: 10, Name: "Math"}})
	vm.setScores([]score.Score{
		{ID: 1, StudentID: 1, SubjectID: 10, Value: 8},
		{ID: 2, StudentID: 2, SubjectID: 10, Value: 9.5},
		{ID: 3, StudentID: 1, SubjectID: 11, Value: 7},
		{ID: 4, StudentID: 1, SubjectID: 10, Value: 6},
	})

	sum := vm.Summary()
	assert.Equal(t, []StudentAverage{
		{StudentID: 1, Label: "Ann (ID: 1)", Average: 7, Count: 3},
		{StudentID: 2, Label: "Bob (ID: 2)", Average: 9.5, Count: 1},
	}, sum.Averages)
	assert.Equal(t, []SubjectMax{
		{SubjectID: 10, Label: "Math (ID: 10)", Max: 9.5},
		{SubjectID: 11, Label: Unknown, Max: 7},
	}, sum.Maxima)
	assert.Equal(t, "7.0", sum.Averages[0].Display())

	assert.Empty(t, NewViewModel().Summary().Averages)
}
