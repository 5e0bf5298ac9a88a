package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdgconnect/internal/repository"
)

func offerRouter(t *testing.T, userID uint) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock := newTestDB(t)
	projectRepo := repository.NewProjectRepository(db)
	contributorRepo := repository.NewContributorRepository(db, projectRepo)
	h := NewOfferHandler(repository.NewOfferRepository(db), nil, contributorRepo)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.POST("/offers", h.Create)
	return r, mock
}

func postOffer(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/offers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOffer_LinksDonorContributorForProject(t *testing.T) {
	r, mock := offerRouter(t, 5)
	mock.ExpectExec("INSERT INTO `offers`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `contributors`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := postOffer(t, r, `{"category":"money","donorName":"Asha","contact":"254712345678","projectId":9,"quantity":"2"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOffer_AnonymousCallerSkipsContributor(t *testing.T) {
	r, mock := offerRouter(t, 0)
	mock.ExpectExec("INSERT INTO `offers`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := postOffer(t, r, `{"category":"money","donorName":"Asha","contact":"254712345678","projectId":9}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	// a contributor insert would be an unexpected call
	assert.NoError(t, mock.ExpectationsWereMet())
}
