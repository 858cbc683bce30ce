// Package app wires together configuration, the LLM client, and the book
// orchestrator, grounded on the teacher's internal/app/app.go dependency-
// injection shape (an App struct built by a sequence of init* steps).
package app

import (
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"booktranslator/internal/book"
	"booktranslator/internal/config"
	"booktranslator/internal/llm"
	"booktranslator/pkg/language"
)

// App holds the fully-wired dependencies a cobra command needs to run a
// translation.
type App struct {
	Config       *config.Config
	Logger       *logrus.Logger
	Orchestrator *book.Orchestrator
}

// NewApp validates cfg and builds the logger, LLM client, and orchestrator
// from it.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger()

	target, err := language.Resolve(cfg.Language)
	if err != nil {
		return nil, err
	}

	extraPrompt, err := config.ResolveExtraPrompt(cfg.Prompt)
	if err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	limiter := rate.NewLimiter(rate.Limit(cfg.Threads), cfg.Threads)

	translator := llm.New(client, llm.Options{
		Model:         cfg.Model,
		Temperature:   cfg.Temperature,
		TopP:          cfg.TopP,
		TargetLang:    target.Name,
		ExtraPrompt:   extraPrompt,
		RetryTimes:    cfg.RetryTimes,
		RetryInterval: cfg.RetryInterval(),
	}, limiter, logger.WithField("component", "llm"))

	orchestrator := book.New(book.Config{
		TargetLanguage: target,
		MaxThreads:     cfg.Threads,
		MaxParagraph:   cfg.MaxParagraph,
		GroupMaxTokens: cfg.MaxChunkTokens,
		BestEffort:     cfg.BestEffort,
		CleanFormat:    cfg.CleanFormat,
		WorkDir:        cfg.WorkDir,
		CacheDir:       cfg.CacheDir,
	}, translator, logger.WithField("component", "book"))

	return &App{Config: cfg, Logger: logger, Orchestrator: orchestrator}, nil
}

// newLogger builds the text-formatted logrus logger every command shares,
// in the teacher's ambient-logging idiom.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}
