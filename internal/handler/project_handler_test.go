package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdgconnect/internal/repository"
)

func projectRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock := newTestDB(t)
	projectRepo := repository.NewProjectRepository(db)
	contributorRepo := repository.NewContributorRepository(db, projectRepo)
	h := NewProjectHandler(projectRepo, contributorRepo, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(3))
		c.Next()
	})
	r.POST("/projects", h.Create)
	return r, mock
}

func postProjectForm(t *testing.T, r *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProject_ValidationFailures(t *testing.T) {
	r, _ := projectRouter(t)

	cases := []struct {
		name   string
		fields map[string]string
		detail string
	}{
		{
			"short title",
			map[string]string{"type": "project", "title": "Go", "briefInfo": "Planting trees in Nairobi", "sdgs": "13", "startDate": "2026-09-01"},
			"title must be at least 3 characters",
		},
		{
			"short briefInfo",
			map[string]string{"type": "project", "title": "Tree planting", "briefInfo": "Trees", "sdgs": "13", "startDate": "2026-09-01"},
			"briefInfo must be at least 10 characters",
		},
		{
			"no sdgs",
			map[string]string{"type": "project", "title": "Tree planting", "briefInfo": "Planting trees in Nairobi", "startDate": "2026-09-01"},
			"at least one SDG is required",
		},
		{
			"bad type",
			map[string]string{"type": "thing", "title": "Tree planting", "briefInfo": "Planting trees in Nairobi", "sdgs": "13", "startDate": "2026-09-01"},
			"type must be project or event",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postProjectForm(t, r, tc.fields)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp struct {
				Error   string   `json:"error"`
				Details []string `json:"details"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Validation failed", resp.Error)
			assert.Contains(t, resp.Details, tc.detail)
		})
	}
}

func TestCreateProject_Success(t *testing.T) {
	r, mock := projectRouter(t)
	mock.ExpectExec("INSERT INTO `projects`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := postProjectForm(t, r, map[string]string{
		"type":      "event",
		"title":     "Beach cleanup",
		"briefInfo": "Community cleanup of Nyali beach",
		"sdgs":      "14, 15",
		"startDate": "2026-09-01",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
