package gradebook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
)

func TestRenderer_Body(t *testing.T) {
	table := Table{
		Kind:    core.KindSubject,
		Columns: Columns(core.KindSubject),
		Rows: []Row{
			{Key: 1, Cells: []string{"1", "Math", "30"}},
			{Key: 2, Cells: []string{"2", "<b>Art</b>", "12"}, Hidden: true},
		},
		CSRF: "tok",
	}
	body, err := renderer.Body(table)
	require.NoError(t, err)
	html := string(body)

	assert.Contains(t, html, `<tr data-key="1">`)
	assert.Contains(t, html, `<tr data-key="2" hidden>`)
	assert.Contains(t, html, `action="/tables/subject/rows/1/edit"`)
	assert.Contains(t, html, `action="/tables/subject/rows/2/delete"`)
	assert.Contains(t, html, `name="_csrf" value="tok"`)
	assert.Contains(t, html, "&lt;b&gt;Art&lt;/b&gt;", "cells must be escaped")
	assert.NotContains(t, html, "onclick")

	// rows in order, add row last
	first := strings.Index(html, `data-key="1"`)
	second := strings.Index(html, `data-key="2"`)
	add := strings.Index(html, `class="add-row"`)
	assert.True(t, first < second && second < add)
	assert.Contains(t, html, `colspan="4"`)
	assert.Contains(t, html, "+ Click to add new subject")
}

func TestRenderer_AddForm(t *testing.T) {
	vm := NewViewModel()
	vm.setStudents(nil)
	vm.update(core.KindStudent, func(ts *TableState) { ts.Adding = true })

	table, err := vm.Table(core.KindStudent)
	require.NoError(t, err)
	body, err := renderer.Body(table)
	require.NoError(t, err)
	html := string(body)

	assert.Contains(t, html, `<form id="add-student" method="post" action="/tables/student/rows">`)
	assert.Contains(t, html, `action="/tables/student/add/cancel"`)
	for _, name := range []string{"student_id", "name", "class_", "birthdate"} {
		assert.Contains(t, html, `name="`+name+`" form="add-student"`)
	}
	assert.Contains(t, html, `type="date" name="birthdate"`)
	assert.NotContains(t, html, `class="add-row"`)
}

func TestViewModel_TableUnknownKind(t *testing.T) {
	_, err := NewViewModel().Table(core.Kind("course"))
	assert.Error(t, err)
}
