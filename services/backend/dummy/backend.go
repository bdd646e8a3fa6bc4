// Package dummybackend is an in-memory core.Backend used by tests and by the "memory" backend driver.
package dummybackend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

// Call records one backend call.
type Call struct {
	Method  string
	Kind    core.Kind
	ID      int
	Payload json.RawMessage
}

type record map[string]interface{}

type table struct {
	rows   []record
	nextPK int
}

type Backend struct {
	mu      sync.Mutex
	tables  map[core.Kind]*table
	calls   []Call
	fails   map[string]error
	cascade bool
}

var _ core.Backend = (*Backend)(nil)

var idFields = map[core.Kind]string{
	core.KindStudent: "student_id",
	core.KindSubject: "subject_id",
	core.KindScore:   "score_id",
}

func New() *Backend {
	b := &Backend{
		tables: make(map[core.Kind]*table, len(core.Kinds)),
		fails:  make(map[string]error),
	}
	for _, k := range core.Kinds {
		b.tables[k] = &table{}
	}
	return b
}

// Cascade makes deleting a student or subject also delete its scores.
func (b *Backend) Cascade(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cascade = on
}

// Seed stores items as-is, without recording calls. Items must marshal to JSON objects.
func (b *Backend) Seed(kind core.Kind, items ...interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tables[kind]
	if !ok {
		return errors.Wrapf(core.ErrUnknownKind, "%q", kind)
	}
	for _, item := range items {
		rec, err := toRecord(item)
		if err != nil {
			return err
		}
		if kind == core.KindScore && idOf(kind, rec) == 0 {
			t.nextPK++
			rec[idFields[kind]] = t.nextPK
		}
		if id := idOf(kind, rec); id > t.nextPK {
			t.nextPK = id
		}
		t.rows = append(t.rows, rec)
	}
	return nil
}

// Reset drops data, recorded calls and failures.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range core.Kinds {
		b.tables[k] = &table{}
	}
	b.calls = nil
	b.fails = make(map[string]error)
	b.cascade = false
}

// Fail makes every following call of method on kind fail with err, until cleared with a nil err.
func (b *Backend) Fail(method string, kind core.Kind, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + string(kind)
	if err == nil {
		delete(b.fails, key)
		return
	}
	b.fails[key] = err
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallCount counts the recorded calls of method on kind.
func (b *Backend) CallCount(method string, kind core.Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method && c.Kind == kind {
			n++
		}
	}
	return n
}

func (b *Backend) List(ctx context.Context, kind core.Kind) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.begin(ctx, http.MethodGet, kind, 0, nil)
	if err != nil {
		return nil, err
	}
	rows := t.rows
	if rows == nil {
		rows = []record{}
	}
	return json.Marshal(rows)
}

func (b *Backend) Create(ctx context.Context, kind core.Kind, payload interface{}) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, err := toRecord(payload)
	if err != nil {
		return nil, b.apiError(http.MethodPost, kind, "/add", http.StatusBadRequest, err)
	}
	t, err := b.begin(ctx, http.MethodPost, kind, 0, rec)
	if err != nil {
		return nil, err
	}

	if kind == core.KindScore {
		t.nextPK++
		rec[idFields[kind]] = t.nextPK
	} else if id := idOf(kind, rec); t.find(kind, id) >= 0 {
		return nil, b.envelope(http.MethodPost, kind, "/add", fmt.Sprintf("%s already exists", kind.Title()))
	}
	t.rows = append(t.rows, rec)
	return message(fmt.Sprintf("%s added successfully", kind.Title())), nil
}

func (b *Backend) Update(ctx context.Context, kind core.Kind, id int, payload interface{}) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, err := toRecord(payload)
	if err != nil {
		return nil, b.apiError(http.MethodPut, kind, "/update", http.StatusBadRequest, err)
	}
	t, err := b.begin(ctx, http.MethodPut, kind, id, rec)
	if err != nil {
		return nil, err
	}

	i := t.find(kind, id)
	if i < 0 {
		return nil, b.envelope(http.MethodPut, kind, "/update", fmt.Sprintf("%s not found", kind.Title()))
	}
	rec[idFields[kind]] = id
	t.rows[i] = rec
	return message(fmt.Sprintf("%s updated successfully", kind.Title())), nil
}

func (b *Backend) Delete(ctx context.Context, kind core.Kind, id int) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.begin(ctx, http.MethodDelete, kind, id, nil)
	if err != nil {
		return nil, err
	}

	i := t.find(kind, id)
	if i < 0 {
		return nil, b.envelope(http.MethodDelete, kind, "/remove/"+strconv.Itoa(id), fmt.Sprintf("%s not found", kind.Title()))
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)

	if b.cascade && kind != core.KindScore {
		scores := b.tables[core.KindScore]
		kept := scores.rows[:0]
		for _, rec := range scores.rows {
			if intField(rec, idFields[kind]) != id {
				kept = append(kept, rec)
			}
		}
		scores.rows = kept
	}
	return message(fmt.Sprintf("%s removed successfully", kind.Title())), nil
}

// begin records the call and applies injected failures. Callers hold the lock.
func (b *Backend) begin(ctx context.Context, method string, kind core.Kind, id int, rec record) (*table, error) {
	var payload json.RawMessage
	if rec != nil {
		payload, _ = json.Marshal(rec)
	}
	b.calls = append(b.calls, Call{Method: method, Kind: kind, ID: id, Payload: payload})

	if err := ctx.Err(); err != nil {
		return nil, &core.APIError{Method: method, Path: "/" + kind.Resource(), Err: err}
	}
	t, ok := b.tables[kind]
	if !ok {
		return nil, errors.Wrapf(core.ErrUnknownKind, "%q", kind)
	}
	if err, ok := b.fails[method+" "+string(kind)]; ok {
		return nil, &core.APIError{Method: method, Path: "/" + kind.Resource(), StatusCode: http.StatusInternalServerError, Err: err}
	}
	return t, nil
}

func (b *Backend) apiError(method string, kind core.Kind, suffix string, status int, err error) error {
	return &core.APIError{Method: method, Path: "/" + kind.Resource() + suffix, StatusCode: status, Err: err}
}

// envelope mimics the backend reporting a failure with a 200 and an error body.
func (b *Backend) envelope(method string, kind core.Kind, suffix, msg string) error {
	body, _ := json.Marshal(map[string]string{"message": "An error occurred", "error": msg})
	return &core.APIError{
		Method:     method,
		Path:       "/" + kind.Resource() + suffix,
		StatusCode: http.StatusOK,
		Body:       string(body),
		Err:        errors.New(msg),
	}
}

func (t *table) find(kind core.Kind, id int) int {
	for i, rec := range t.rows {
		if idOf(kind, rec) == id {
			return i
		}
	}
	return -1
}

func toRecord(v interface{}) (record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "dummybackend.toRecord")
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "dummybackend.toRecord")
	}
	if rec == nil {
		return nil, errors.New("dummybackend.toRecord: payload is not an object")
	}
	return rec, nil
}

func idOf(kind core.Kind, rec record) int {
	return intField(rec, idFields[kind])
}

func intField(rec record, name string) int {
	switch v := rec[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func message(msg string) json.RawMessage {
	data, _ := json.Marshal(map[string]string{"message": msg})
	return data
}
