package gradebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/notify"
	"github.com/trezcool/gradebook/core/score"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/core/subject"
)

var (
	// ErrStaleEntity is returned when an action targets an entity missing from the cache.
	ErrStaleEntity = errors.New("entity no longer exists")

	ErrNoPendingDelete = errors.New("no delete waiting for confirmation")
)

// InitialLoadFailed is the warning shown when the first fetch of the tables fails.
const InitialLoadFailed = "Failed to load initial data"

// Controller runs the user actions: it validates input, calls the backend,
// refreshes the cache and reports the outcome as notifications.
// Backend failures are never returned; only unknown kinds, stale entities and context errors are.
type Controller struct {
	vm         *ViewModel
	backend    core.Backend
	notifier   *notify.Notifier
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
	queues     map[core.Kind]chan struct{}
}

func NewController(vm *ViewModel, backend core.Backend, notifier *notify.Notifier, logger core.Logger) *Controller {
	validate, translator := core.NewValidator()
	queues := make(map[core.Kind]chan struct{}, len(core.Kinds))
	for _, k := range core.Kinds {
		queues[k] = make(chan struct{}, 1)
	}
	return &Controller{
		vm:         vm,
		backend:    backend,
		notifier:   notifier,
		logger:     logger,
		validate:   validate,
		translator: translator,
		queues:     queues,
	}
}

func (c *Controller) ViewModel() *ViewModel { return c.vm }

func (c *Controller) Notifier() *notify.Notifier { return c.notifier }

// acquire waits for the queue of kind: one backend operation per kind at a time.
func (c *Controller) acquire(ctx context.Context, kind core.Kind) (release func(), err error) {
	q, ok := c.queues[kind]
	if !ok {
		return nil, errors.Wrapf(core.ErrUnknownKind, "%q", kind)
	}
	select {
	case q <- struct{}{}:
		return func() { <-q }, nil
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "gradebook.acquire(%s)", kind)
	}
}

func (c *Controller) fail(err error, msg string) {
	c.logger.Error(msg, err)
	c.notifier.Error(msg)
}

func staleMessage(kind core.Kind, id int) string {
	return fmt.Sprintf("%s %d no longer exists", kind.Title(), id)
}

// Refresh replaces the cache of kind with a fresh list from the backend.
func (c *Controller) Refresh(ctx context.Context, kind core.Kind) error {
	release, err := c.acquire(ctx, kind)
	if err != nil {
		return err
	}
	defer release()

	if err := c.fetch(ctx, kind); err != nil {
		c.fail(err, fmt.Sprintf("Failed to load %s", kind.Resource()))
	}
	return nil
}

// RefreshAll fetches every kind. Any failure is reported once with the initial load warning.
func (c *Controller) RefreshAll(ctx context.Context) error {
	var failed bool
	for _, kind := range core.Kinds {
		release, err := c.acquire(ctx, kind)
		if err != nil {
			return err
		}
		if err := c.fetch(ctx, kind); err != nil {
			c.logger.Error(fmt.Sprintf("Failed to load %s", kind.Resource()), err)
			failed = true
		}
		release()
	}
	if failed {
		c.notifier.Warning(InitialLoadFailed)
	}
	return nil
}

// fetch must be called with the queue of kind held.
func (c *Controller) fetch(ctx context.Context, kind core.Kind) error {
	raw, err := c.backend.List(ctx, kind)
	if err != nil {
		return err
	}
	switch kind {
	case core.KindStudent:
		var students []student.Student
		if err := json.Unmarshal(raw, &students); err != nil {
			return errors.Wrapf(err, "decode %s", kind.Resource())
		}
		c.vm.setStudents(students)
	case core.KindSubject:
		var subjects []subject.Subject
		if err := json.Unmarshal(raw, &subjects); err != nil {
			return errors.Wrapf(err, "decode %s", kind.Resource())
		}
		c.vm.setSubjects(subjects)
	case core.KindScore:
		var scores []score.Score
		if err := json.Unmarshal(raw, &scores); err != nil {
			return errors.Wrapf(err, "decode %s", kind.Resource())
		}
		c.vm.setScores(scores)
	default:
		return errors.Wrapf(core.ErrUnknownKind, "%q", kind)
	}
	return nil
}

// OpenAdd opens the add row of kind and reverts any edited row. It returns false when the row is already open.
func (c *Controller) OpenAdd(kind core.Kind) bool {
	var opened bool
	c.vm.update(kind, func(ts *TableState) {
		if !ts.Adding {
			ts.Adding, opened = true, true
			ts.Editing, ts.EditingID = false, 0
		}
	})
	return opened
}

func (c *Controller) CancelAdd(kind core.Kind) {
	c.vm.update(kind, func(ts *TableState) { ts.Adding = false })
}

// SubmitAdd validates the add form and creates the entity.
// Invalid input closes the form with a warning and never reaches the backend.
func (c *Controller) SubmitAdd(ctx context.Context, kind core.Kind, values url.Values) error {
	entity, id, err := c.parse(kind, values, false, 0)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			c.CancelAdd(kind)
			c.notifier.Warning(fmt.Sprintf("Invalid %s: %s", kind, vErr.Error()))
			return nil
		}
		return err
	}
	if kind != core.KindScore && c.vm.Has(kind, id) {
		c.CancelAdd(kind)
		c.notifier.Warning(fmt.Sprintf("%s %d already exists", kind.Title(), id))
		return nil
	}

	release, err := c.acquire(ctx, kind)
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.backend.Create(ctx, kind, entity); err != nil {
		c.CancelAdd(kind)
		c.fail(err, fmt.Sprintf("Failed to add %s", kind))
		return nil
	}
	if err := c.fetch(ctx, kind); err != nil {
		c.fail(err, fmt.Sprintf("Failed to load %s", kind.Resource()))
	}
	c.CancelAdd(kind)
	c.notifier.Success(fmt.Sprintf("%s added successfully", kind.Title()))
	return nil
}

// BeginEdit turns the row of id into inputs. Any other row of the table being edited is reverted
// and the add row is closed.
func (c *Controller) BeginEdit(kind core.Kind, id int) error {
	if !c.vm.Has(kind, id) {
		c.notifier.Warning(staleMessage(kind, id))
		return errors.Wrapf(ErrStaleEntity, "%s %d", kind, id)
	}
	c.vm.update(kind, func(ts *TableState) {
		ts.Editing, ts.EditingID = true, id
		ts.Adding = false
	})
	return nil
}

// CancelEdit reverts the edited row of kind to its display form.
func (c *Controller) CancelEdit(kind core.Kind) {
	c.vm.update(kind, func(ts *TableState) {
		ts.Editing, ts.EditingID = false, 0
	})
}

// SaveEdit validates the edited values of id and updates the entity.
// The row reverts on invalid input (warning, no backend call) and on backend failure (error).
func (c *Controller) SaveEdit(ctx context.Context, kind core.Kind, id int, values url.Values) error {
	if !c.vm.Has(kind, id) {
		c.CancelEdit(kind)
		c.notifier.Warning(staleMessage(kind, id))
		return errors.Wrapf(ErrStaleEntity, "%s %d", kind, id)
	}
	entity, _, err := c.parse(kind, values, true, id)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			c.CancelEdit(kind)
			c.notifier.Warning(fmt.Sprintf("Invalid %s: %s", kind, vErr.Error()))
			return nil
		}
		return err
	}

	release, err := c.acquire(ctx, kind)
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.backend.Update(ctx, kind, id, entity); err != nil {
		c.CancelEdit(kind)
		c.fail(err, fmt.Sprintf("Failed to update %s", kind))
		return nil
	}
	if err := c.fetch(ctx, kind); err != nil {
		c.fail(err, fmt.Sprintf("Failed to load %s", kind.Resource()))
	}
	c.CancelEdit(kind)
	c.notifier.Success(fmt.Sprintf("%s updated successfully", kind.Title()))
	return nil
}

// RequestDelete asks for confirmation before deleting id.
func (c *Controller) RequestDelete(kind core.Kind, id int) error {
	if !c.vm.Has(kind, id) {
		c.notifier.Warning(staleMessage(kind, id))
		return errors.Wrapf(ErrStaleEntity, "%s %d", kind, id)
	}
	c.vm.setPending(&PendingDelete{Kind: kind, ID: id})
	return nil
}

// ConfirmDelete closes the confirmation of kind and, when confirmed, deletes the pending entity.
// Deleting a student or subject also re-fetches the scores so they show what the backend kept.
// ErrNoPendingDelete is returned when no delete of kind waits for confirmation.
func (c *Controller) ConfirmDelete(ctx context.Context, kind core.Kind, confirmed bool) error {
	p, ok := c.vm.takePending(kind)
	if !ok {
		return errors.Wrapf(ErrNoPendingDelete, "%s", kind)
	}
	if !confirmed {
		return nil
	}
	return c.delete(ctx, p.Kind, p.ID)
}

// Delete removes id without asking for confirmation.
func (c *Controller) Delete(ctx context.Context, kind core.Kind, id int) error {
	return c.delete(ctx, kind, id)
}

func (c *Controller) delete(ctx context.Context, kind core.Kind, id int) error {
	release, err := c.acquire(ctx, kind)
	if err != nil {
		return err
	}
	if _, err := c.backend.Delete(ctx, kind, id); err != nil {
		release()
		c.fail(err, fmt.Sprintf("Failed to delete %s", kind))
		return nil
	}
	if err := c.fetch(ctx, kind); err != nil {
		c.fail(err, fmt.Sprintf("Failed to load %s", kind.Resource()))
	}
	release()

	if kind != core.KindScore {
		if err := c.Refresh(ctx, core.KindScore); err != nil {
			return err
		}
	}
	c.notifier.Success(fmt.Sprintf("%s deleted successfully", kind.Title()))
	return nil
}

// SetQuery stores the search query of kind.
func (c *Controller) SetQuery(kind core.Kind, query string) {
	c.vm.update(kind, func(ts *TableState) { ts.Query = query })
}

// parse validates the form values of kind. When edit is set, the id comes from the edited row,
// never from the submitted values; otherwise id is ignored.
func (c *Controller) parse(kind core.Kind, values url.Values, edit bool, id int) (interface{}, int, error) {
	switch kind {
	case core.KindStudent:
		f := student.FormFromValues(values)
		var s student.Student
		var err error
		if edit {
			s, err = f.ValidateUpdate(c.validate, id)
		} else {
			s, err = f.Validate(c.validate)
		}
		if err != nil {
			return nil, 0, core.TranslateValidationErrors(err, c.translator)
		}
		return s, s.ID, nil

	case core.KindSubject:
		f := subject.FormFromValues(values)
		var s subject.Subject
		var err error
		if edit {
			s, err = f.ValidateUpdate(c.validate, id)
		} else {
			s, err = f.Validate(c.validate)
		}
		if err != nil {
			return nil, 0, core.TranslateValidationErrors(err, c.translator)
		}
		return s, s.ID, nil

	case core.KindScore:
		f := score.FormFromValues(values)
		s, err := f.Validate(c.validate)
		if err != nil {
			return nil, 0, core.TranslateValidationErrors(err, c.translator)
		}
		if edit {
			s.ID = id
		}
		return s, s.ID, nil
	}
	return nil, 0, errors.Wrapf(core.ErrUnknownKind, "%q", kind)
}
