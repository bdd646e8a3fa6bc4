package gradebook

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var fields = map[core.Kind][]string{
	core.KindStudent: {"student_id", "name", "class_", "birthdate"},
	core.KindSubject: {"subject_id", "name", "amount"},
	core.KindScore:   {"score_id", "student_id", "subject_id", "score", "date"},
}

// Records returns the cache of kind as raw records, headed by the backend field names.
func (vm *ViewModel) Records(kind core.Kind) ([][]string, error) {
	header, ok := fields[kind]
	if !ok {
		return nil, errors.Wrapf(core.ErrUnknownKind, "%q", kind)
	}

	vm.mu.RLock()
	defer vm.mu.RUnlock()

	records := [][]string{append([]string(nil), header...)}
	switch kind {
	case core.KindStudent:
		for _, s := range vm.students {
			records = append(records, []string{strconv.Itoa(s.ID), s.Name, s.ClassName, s.Birthdate})
		}
	case core.KindSubject:
		for _, s := range vm.subjects {
			records = append(records, []string{strconv.Itoa(s.ID), s.Name, strconv.Itoa(s.Lessons)})
		}
	case core.KindScore:
		for _, s := range vm.scores {
			records = append(records, []string{
				strconv.Itoa(s.ID), strconv.Itoa(s.StudentID), strconv.Itoa(s.SubjectID), s.Display(), s.Date,
			})
		}
	}
	return records, nil
}

// ImportReport tells how an import went. Failures are keyed by 1-based record number, header included.
type ImportReport struct {
	Created  int
	Failures map[int]string
}

func (r ImportReport) Failed() int { return len(r.Failures) }

// Import creates one entity per record. The first record is the header and names the columns;
// unknown columns are ignored and the score id column is left to the backend.
// Invalid records and backend failures are collected, the others are still created.
func (c *Controller) Import(ctx context.Context, kind core.Kind, records [][]string) (ImportReport, error) {
	report := ImportReport{Failures: map[int]string{}}
	if _, ok := fields[kind]; !ok {
		return report, errors.Wrapf(core.ErrUnknownKind, "%q", kind)
	}
	if len(records) == 0 {
		return report, nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = core.CleanString(h, true /* lower */)
	}

	release, err := c.acquire(ctx, kind)
	if err != nil {
		return report, err
	}
	defer release()

	for n, rec := range records[1:] {
		line := n + 2
		if isBlank(rec) {
			continue
		}
		values := url.Values{}
		for i, v := range rec {
			if i < len(header) && header[i] != "" {
				values.Set(header[i], v)
			}
		}
		entity, id, err := c.parse(kind, values, false, 0)
		if err != nil {
			if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
				report.Failures[line] = vErr.Error()
				continue
			}
			return report, err
		}
		if kind != core.KindScore && c.vm.Has(kind, id) {
			report.Failures[line] = fmt.Sprintf("%s %d already exists", kind.Title(), id)
			continue
		}
		if _, err := c.backend.Create(ctx, kind, entity); err != nil {
			c.logger.Error(fmt.Sprintf("Failed to import %s", kind), err)
			report.Failures[line] = err.Error()
			continue
		}
		report.Created++
	}

	if report.Created > 0 {
		if err := c.fetch(ctx, kind); err != nil {
			c.fail(err, fmt.Sprintf("Failed to load %s", kind.Resource()))
		}
	}
	msg := fmt.Sprintf("Imported %d %s", report.Created, kind.Resource())
	if report.Failed() > 0 {
		c.notifier.Warning(fmt.Sprintf("%s, %d failed", msg, report.Failed()))
	} else {
		c.notifier.Success(msg)
	}
	return report, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
