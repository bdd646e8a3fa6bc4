package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/score"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/core/subject"
	"github.com/trezcool/gradebook/services/backend/dummy"
)

// Logger records log entries instead of printing them.
type Logger struct {
	mu      sync.Mutex
	Entries []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := level + ": " + msg
	for _, arg := range args {
		entry += fmt.Sprintf(" | %v", arg)
	}
	l.Entries = append(l.Entries, entry)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

func (l *Logger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Entries)
}

func CreateStudent(t *testing.T, backend *dummybackend.Backend, id int, name, class, birthdate string) student.Student {
	s := student.Student{ID: id, Name: name, ClassName: class, Birthdate: birthdate}
	if err := backend.Seed(core.KindStudent, s); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateSubject(t *testing.T, backend *dummybackend.Backend, id int, name string, lessons int) subject.Subject {
	s := subject.Subject{ID: id, Name: name, Lessons: lessons}
	if err := backend.Seed(core.KindSubject, s); err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return s
}

// CreateScore seeds a score; id 0 lets the backend assign one, which is not reflected in the returned value.
func CreateScore(t *testing.T, backend *dummybackend.Backend, id, studentID, subjectID int, value float64, date string) score.Score {
	s := score.Score{ID: id, StudentID: studentID, SubjectID: subjectID, Value: value, Date: date}
	if err := backend.Seed(core.KindScore, s); err != nil {
		t.Fatalf("CreateScore() failed: %v", err)
	}
	return s
}
