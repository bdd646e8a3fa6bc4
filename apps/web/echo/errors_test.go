package echoweb

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/tests"
)

func Test_appHTTPErrorHandler(t *testing.T) {
	apiErr := &core.APIError{Method: http.MethodGet, Path: "/students/list", StatusCode: http.StatusInternalServerError}

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantLevel string
	}{
		{name: "backend error", err: errors.Wrap(apiErr, "refresh students"), wantCode: http.StatusBadGateway, wantLevel: "WARN"},
		{name: "backend error in a std chain", err: fmt.Errorf("refresh students: %w", apiErr), wantCode: http.StatusBadGateway, wantLevel: "WARN"},
		{name: "unknown kind", err: errors.Wrapf(core.ErrUnknownKind, "%q", "courses"), wantCode: http.StatusNotFound},
		{
			name:     "validation",
			err:      core.NewValidationError(nil, core.FieldError{Field: "name", Error: "this field is required"}),
			wantCode: http.StatusBadRequest,
		},
		{name: "http error", err: echo.NewHTTPError(http.StatusConflict, "conflict"), wantCode: http.StatusConflict},
		{name: "anything else", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantLevel: "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testutil.NewLogger()
			var shutdown bool
			handler := newAppHTTPErrorHandler(logger, func() { shutdown = true })

			rec := httptest.NewRecorder()
			ctx := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			handler(tt.err, ctx)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, shutdown)
			if tt.wantLevel == "" {
				assert.Zero(t, logger.Count())
				return
			}
			if assert.Equal(t, 1, logger.Count()) {
				assert.True(t, strings.HasPrefix(logger.Entries[0], tt.wantLevel+": "), logger.Entries[0])
			}
		})
	}
}
