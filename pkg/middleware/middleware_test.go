package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	md "github.com/pfsquare/library-service/pkg/middleware"
)

func TestStaffAuth(t *testing.T) {
	t.Parallel()

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "OK") }

	tests := []struct {
		name     string
		key      string
		header   string
		wantCode int
	}{
		{"valid key", "secret", "secret", http.StatusOK},
		{"wrong key", "secret", "nope", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"key not configured", "", "anything", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.POST("/books", ok, md.StaffAuth(tt.key))

			r := httptest.NewRequest(http.MethodPost, "/books", http.NoBody)
			if tt.header != "" {
				r.Header.Set(md.StaffKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.wantCode, w.Code)
		})
	}
}
