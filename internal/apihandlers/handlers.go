// Package apihandlers exposes the translation orchestrator over HTTP,
// grounded on the teacher's internal/apihandlers handler shape (APIHandler
// struct, JSONError helpers) with the content-service calls replaced by
// book.Orchestrator job submission.
package apihandlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"booktranslator/internal/book"
	"booktranslator/internal/config"
)

// Handler wires the book orchestrator into gin routes.
type Handler struct {
	orchestrator *book.Orchestrator
	cfg          *config.Config
	logger       *logrus.Entry
	jobs         *jobStore
}

// New builds a Handler around orchestrator.
func New(orchestrator *book.Orchestrator, cfg *config.Config, logger *logrus.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		cfg:          cfg,
		logger:       logger.WithField("component", "api"),
		jobs:         newJobStore(),
	}
}

// createTranslationRequest is the JSON body for POST /v1/translations.
type createTranslationRequest struct {
	SourceFile     string `json:"source_file"`
	TranslatedFile string `json:"translated_file"`
}

// CreateTranslation submits an EPUB for translation and returns a job id
// the caller polls via GetTranslation.
func (h *Handler) CreateTranslation(c *gin.Context) {
	var req createTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.SourceFile == "" {
		BadRequest(c, "source_file is required")
		return
	}

	job := h.jobs.create(req.SourceFile)

	// Run the translation asynchronously so the HTTP call returns
	// immediately with the job id; the caller polls GetTranslation.
	go run(context.Background(), h.orchestrator, h.jobs, h.logger, job, req.SourceFile, req.TranslatedFile)

	c.JSON(http.StatusAccepted, gin.H{"data": job})
}

// GetTranslation reports a submitted job's status and progress.
func (h *Handler) GetTranslation(c *gin.Context) {
	id := c.Param("id")
	job, ok := h.jobs.get(id)
	if !ok {
		NotFound(c, fmt.Sprintf("no translation job with id %s", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}
