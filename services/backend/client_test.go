package backendsvc

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/student"
)

type captured struct {
	method      string
	path        string
	contentType string
	accept      string
	body        string
}

type recorder struct {
	mu   sync.Mutex
	reqs []captured
}

func (r *recorder) all() []captured {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]captured(nil), r.reqs...)
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := ioutil.ReadAll(r.Body)
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.reqs = append(rec.reqs, captured{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			accept:      r.Header.Get("Accept"),
			body:        string(data),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_Requests(t *testing.T) {
	ann := student.Student{ID: 1, Name: "Ann", ClassName: "5A", Birthdate: "2010-01-01"}
	annJSON := `{"student_id":1,"name":"Ann","class_":"5A","birthdate":"2010-01-01"}`

	tests := []struct {
		name       string
		routeStyle string
		call       func(b core.Backend) (interface{}, error)
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{
			name:       "list",
			call:       func(b core.Backend) (interface{}, error) { return b.List(context.Background(), core.KindStudent) },
			wantMethod: http.MethodGet,
			wantPath:   "/api/students/list",
		},
		{
			name:       "create",
			call:       func(b core.Backend) (interface{}, error) { return b.Create(context.Background(), core.KindStudent, ann) },
			wantMethod: http.MethodPost,
			wantPath:   "/api/students/add",
			wantBody:   annJSON,
		},
		{
			name:       "update action style",
			routeStyle: core.RouteStyleAction,
			call:       func(b core.Backend) (interface{}, error) { return b.Update(context.Background(), core.KindStudent, 1, ann) },
			wantMethod: http.MethodPut,
			wantPath:   "/api/students/update",
			wantBody:   annJSON,
		},
		{
			name:       "update rest style",
			routeStyle: core.RouteStyleREST,
			call:       func(b core.Backend) (interface{}, error) { return b.Update(context.Background(), core.KindStudent, 1, ann) },
			wantMethod: http.MethodPut,
			wantPath:   "/api/students/1",
			wantBody:   annJSON,
		},
		{
			name:       "delete action style",
			call:       func(b core.Backend) (interface{}, error) { return b.Delete(context.Background(), core.KindScore, 7) },
			wantMethod: http.MethodDelete,
			wantPath:   "/api/scores/remove/7",
		},
		{
			name:       "delete rest style",
			routeStyle: core.RouteStyleREST,
			call:       func(b core.Backend) (interface{}, error) { return b.Delete(context.Background(), core.KindSubject, 3) },
			wantMethod: http.MethodDelete,
			wantPath:   "/api/subjects/3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := newTestServer(t, http.StatusOK, `{"message":"ok"}`)
			b := NewClient(srv.URL+"/api", tt.routeStyle, time.Second)

			_, err := tt.call(b)
			require.NoError(t, err)
			reqs := rec.all()
			require.Len(t, reqs, 1)
			req := reqs[0]
			assert.Equal(t, tt.wantMethod, req.method)
			assert.Equal(t, tt.wantPath, req.path)
			assert.Equal(t, "application/json", req.accept)
			if tt.wantBody != "" {
				assert.Equal(t, "application/json", req.contentType)
				assert.JSONEq(t, tt.wantBody, req.body)
			} else {
				assert.Empty(t, req.body)
			}
		})
	}
}

func TestClient_List(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, ` [{"student_id":1,"name":"Ann","class_":"5A","birthdate":"2010-01-01"}] `)
	b := NewClient(srv.URL, "", time.Second)

	data, err := b.List(context.Background(), core.KindStudent)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"student_id":1,"name":"Ann","class_":"5A","birthdate":"2010-01-01"}]`, string(data))
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`, wantStatus: 500},
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Not Found"}`, wantStatus: 404},
		{name: "malformed json", status: http.StatusOK, body: `[{"student_id":`, wantStatus: 200},
		{name: "error envelope", status: http.StatusOK, body: `{"message":"An error occurred","error":"Student already exists"}`, wantStatus: 200},
		{name: "entity not found", status: http.StatusOK, body: `{"message":"Student not found"}`, wantStatus: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			b := NewClient(srv.URL, core.RouteStyleAction, time.Second)

			_, err := b.Create(context.Background(), core.KindStudent, student.Student{ID: 1})
			require.Error(t, err)
			apiErr, ok := core.AsAPIError(err)
			require.True(t, ok, "want *core.APIError, got %T", err)
			assert.Equal(t, http.MethodPost, apiErr.Method)
			assert.Equal(t, "/students/add", apiErr.Path)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Body)
		})
	}

	t.Run("network failure", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, `[]`)
		srv.Close()
		b := NewClient(srv.URL, core.RouteStyleAction, time.Second)

		_, err := b.List(context.Background(), core.KindScore)
		apiErr, ok := core.AsAPIError(err)
		require.True(t, ok)
		assert.Zero(t, apiErr.StatusCode)
		assert.NotNil(t, apiErr.Err)
	})
}

func TestErrorEnvelope(t *testing.T) {
	msg, ok := errorEnvelope([]byte(`{"message":"An error occurred","error":"duplicate key"}`))
	assert.True(t, ok)
	assert.Equal(t, "An error occurred: duplicate key", msg)

	_, ok = errorEnvelope([]byte(`{"message":"Score added successfully"}`))
	assert.False(t, ok)

	_, ok = errorEnvelope([]byte(`[]`))
	assert.False(t, ok)
}
