package gradebook

import (
	"sync"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/score"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/core/subject"
)

// TableState is the per-table UI state: the open add form, the row being edited and the search query.
type TableState struct {
	Adding    bool
	Editing   bool
	EditingID int
	Query     string
}

// PendingDelete is a delete waiting for user confirmation.
type PendingDelete struct {
	Kind core.Kind
	ID   int
}

// ViewModel owns the client-side cache of the three resources and the UI state of their tables.
// It is safe for concurrent use.
type ViewModel struct {
	mu       sync.RWMutex
	students []student.Student
	subjects []subject.Subject
	scores   []score.Score
	tables   map[core.Kind]*TableState
	pending  *PendingDelete
	loaded   map[core.Kind]bool
}

func NewViewModel() *ViewModel {
	vm := &ViewModel{
		tables: make(map[core.Kind]*TableState, len(core.Kinds)),
		loaded: make(map[core.Kind]bool, len(core.Kinds)),
	}
	for _, k := range core.Kinds {
		vm.tables[k] = &TableState{}
	}
	return vm
}

func (vm *ViewModel) Students() []student.Student {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]student.Student, len(vm.students))
	copy(out, vm.students)
	return out
}

func (vm *ViewModel) Subjects() []subject.Subject {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]subject.Subject, len(vm.subjects))
	copy(out, vm.subjects)
	return out
}

func (vm *ViewModel) Scores() []score.Score {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]score.Score, len(vm.scores))
	copy(out, vm.scores)
	return out
}

// Loaded reports whether the kind has been fetched at least once.
func (vm *ViewModel) Loaded(kind core.Kind) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loaded[kind]
}

// State returns a copy of the table state of kind.
func (vm *ViewModel) State(kind core.Kind) TableState {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if ts, ok := vm.tables[kind]; ok {
		return *ts
	}
	return TableState{}
}

// Pending returns the delete waiting for confirmation, if any.
func (vm *ViewModel) Pending() (PendingDelete, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.pending == nil {
		return PendingDelete{}, false
	}
	return *vm.pending, true
}

// Has reports whether an entity of kind with the given id is cached.
func (vm *ViewModel) Has(kind core.Kind, id int) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.has(kind, id)
}

func (vm *ViewModel) has(kind core.Kind, id int) bool {
	switch kind {
	case core.KindStudent:
		_, ok := vm.findStudent(id)
		return ok
	case core.KindSubject:
		_, ok := vm.findSubject(id)
		return ok
	case core.KindScore:
		_, ok := vm.findScore(id)
		return ok
	}
	return false
}

func (vm *ViewModel) findStudent(id int) (student.Student, bool) {
	for _, s := range vm.students {
		if s.ID == id {
			return s, true
		}
	}
	return student.Student{}, false
}

func (vm *ViewModel) findSubject(id int) (subject.Subject, bool) {
	for _, s := range vm.subjects {
		if s.ID == id {
			return s, true
		}
	}
	return subject.Subject{}, false
}

func (vm *ViewModel) findScore(id int) (score.Score, bool) {
	for _, s := range vm.scores {
		if s.ID == id {
			return s, true
		}
	}
	return score.Score{}, false
}

// setters replace a whole cache slice; the cache is never patched incrementally.

func (vm *ViewModel) setStudents(students []student.Student) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.students = students
	vm.loaded[core.KindStudent] = true
	vm.dropStaleState(core.KindStudent)
}

func (vm *ViewModel) setSubjects(subjects []subject.Subject) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.subjects = subjects
	vm.loaded[core.KindSubject] = true
	vm.dropStaleState(core.KindSubject)
}

func (vm *ViewModel) setScores(scores []score.Score) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.scores = scores
	vm.loaded[core.KindScore] = true
	vm.dropStaleState(core.KindScore)
}

// dropStaleState clears edit and delete state pointing at entities that are gone. Callers hold the lock.
func (vm *ViewModel) dropStaleState(kind core.Kind) {
	ts := vm.tables[kind]
	if ts.Editing && !vm.has(kind, ts.EditingID) {
		ts.Editing, ts.EditingID = false, 0
	}
	if vm.pending != nil && vm.pending.Kind == kind && !vm.has(kind, vm.pending.ID) {
		vm.pending = nil
	}
}

func (vm *ViewModel) update(kind core.Kind, fn func(ts *TableState)) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if ts, ok := vm.tables[kind]; ok {
		fn(ts)
	}
}

// takePending clears and returns the pending delete when it belongs to kind.
func (vm *ViewModel) takePending(kind core.Kind) (PendingDelete, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.pending == nil || vm.pending.Kind != kind {
		return PendingDelete{}, false
	}
	p := *vm.pending
	vm.pending = nil
	return p, true
}

func (vm *ViewModel) setPending(p *PendingDelete) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.pending = p
}
