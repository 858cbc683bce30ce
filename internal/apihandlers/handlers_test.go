package apihandlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktranslator/internal/book"
	"booktranslator/internal/config"
)

func newTestHandler() *Handler {
	gin.SetMode(gin.TestMode)
	return New(&book.Orchestrator{}, &config.Config{}, logrus.New())
}

func TestCreateTranslationRejectsMissingSourceFile(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/v1/translations", strings.NewReader(`{}`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	h.CreateTranslation(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTranslationRejectsMalformedBody(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/v1/translations", strings.NewReader(`not json`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	h.CreateTranslation(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTranslationUnknownIDReturnsNotFound(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.GetTranslation(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobStoreUpdateMutatesExistingJob(t *testing.T) {
	store := newJobStore()
	job := store.create("book.epub")

	store.update(job.ID, func(j *Job) { j.Progress = 0.5 })

	got, ok := store.get(job.ID)
	require.True(t, ok)
	assert.Equal(t, 0.5, got.Progress)
}
