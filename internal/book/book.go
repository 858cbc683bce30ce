// Package book implements the Book Orchestrator (component G): it walks
// an EPUB's spine and metadata, dispatches page translations across a
// bounded worker pool, and aggregates progress into the fixed stage
// weights spec.md §4.7 defines. Grounded on the teacher's worker-pool
// shape in cmd/worker.go (adapted from asynq to an in-process
// golang.org/x/sync/errgroup pool, see DESIGN.md) and on
// other_examples' oukeidos-focst TranslationProgress callback pattern.
package book

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sirupsen/logrus"

	"booktranslator/internal/bterrors"
	"booktranslator/internal/cache"
	"booktranslator/internal/domtext"
	"booktranslator/internal/epubio"
	"booktranslator/internal/grouper"
	"booktranslator/internal/llm"
	"booktranslator/internal/page"
	"booktranslator/pkg/language"
)

// Stage progress weights, fixed per spec.md §4.7, summing to 1.0.
const (
	weightUnzip    = 0.05
	weightMetadata = 0.10
	weightSpine    = 0.80
	weightRezip    = 0.05
)

// Config holds everything the orchestrator needs beyond the source path.
type Config struct {
	SourceLanguage language.Language // zero value means "detect"
	TargetLanguage language.Language
	MaxThreads     int
	MaxParagraph   int
	GroupMaxTokens int
	BestEffort     bool
	CleanFormat    bool
	WorkDir        string
	CacheDir       string
}

// Orchestrator ties the cache, LLM translator, and page translator
// together to translate a whole EPUB.
type Orchestrator struct {
	cfg    Config
	llmTr  *llm.Translator
	logger *logrus.Entry
}

// New builds an Orchestrator.
func New(cfg Config, llmTr *llm.Translator, logger *logrus.Entry) *Orchestrator {
	return &Orchestrator{cfg: cfg, llmTr: llmTr, logger: logger}
}

// DeriveWorkspace returns a stable workspace directory name for path,
// derived from sha512("<mtime>:<path>") so re-runs against an unchanged
// file reuse the unzip tree, while a changed path or mtime invalidates
// it.
func DeriveWorkspace(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	sum := sha512.Sum512([]byte(fmt.Sprintf("%d:%s", info.ModTime().UnixNano(), path)))
	return hex.EncodeToString(sum[:]), nil
}

// TranslateBook translates sourcePath and writes the result to destPath,
// reporting overall progress in [0, 1] through progress.
func (o *Orchestrator) TranslateBook(ctx context.Context, sourcePath, destPath string, progress func(float64)) (string, error) {
	workspaceName, err := DeriveWorkspace(sourcePath)
	if err != nil {
		return "", err
	}
	workspaceDir := filepath.Join(o.cfg.WorkDir, workspaceName)

	names, err := epubio.Unzip(sourcePath, workspaceDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", bterrors.ErrMalformedEPUB, err)
	}
	progress(weightUnzip)

	opfRelPath, err := epubio.RootfilePath(workspaceDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", bterrors.ErrMalformedEPUB, err)
	}
	opfPath := filepath.Join(workspaceDir, filepath.FromSlash(opfRelPath))

	cacheSub := o.cfg.CacheDir
	if cacheSub == "" {
		cacheSub = "translated"
	}
	cacheDir := filepath.Join(workspaceDir, cacheSub)
	c, err := cache.New(cacheDir, o.logger)
	if err != nil {
		return "", err
	}

	translateBatch := func(ctx context.Context, texts []string) ([]string, error) {
		return c.Translate(texts, func(float64) {}, func(srcs []string, report func(float64)) ([]string, error) {
			return o.llmTr.Translate(ctx, srcs)
		})
	}

	sameLanguage := o.cfg.SourceLanguage.Code == o.cfg.TargetLanguage.Code

	if err := o.translateMetadata(ctx, opfPath, translateBatch, sameLanguage); err != nil {
		if !o.cfg.BestEffort {
			return "", err
		}
		o.logger.WithError(err).Warn("metadata translation failed, continuing in best-effort mode")
	}
	progress(weightUnzip + weightMetadata)

	if err := o.translateSpine(ctx, workspaceDir, opfPath, translateBatch, func(fraction float64) {
		progress(weightUnzip + weightMetadata + weightSpine*fraction)
	}); err != nil {
		return "", err
	}
	progress(weightUnzip + weightMetadata + weightSpine)

	if destPath == "" {
		destPath = filepath.Join(o.cfg.WorkDir, workspaceName+".epub")
	}
	if err := epubio.Rezip(workspaceDir, names, destPath); err != nil {
		return "", err
	}
	progress(1.0)

	return destPath, nil
}

// translateMetadata handles title, authors, and NCX text nodes: the
// 0.10-weight metadata stage.
func (o *Orchestrator) translateMetadata(ctx context.Context, opfPath string, translateBatch page.TranslateFunc, sameLanguage bool) error {
	translateOne := func(text string) (string, error) {
		if text == "" {
			return text, nil
		}
		out, err := translateBatch(ctx, []string{text})
		if err != nil {
			return "", err
		}
		return epubio.Bilingual(text, out[0], sameLanguage), nil
	}

	if err := epubio.RewriteTitleAndCreator(opfPath, translateOne, translateOne); err != nil {
		return err
	}

	ncxPath, err := epubio.NCXPath(opfPath)
	if err != nil {
		return nil // no NCX declared; nothing else to translate
	}

	texts, err := epubio.NCXTexts(ncxPath)
	if err != nil || len(texts) == 0 {
		return err
	}

	translated, err := translateBatch(ctx, texts)
	if err != nil {
		return err
	}
	return epubio.RewriteNCXTexts(ncxPath, translated)
}

// translateSpine distributes every XHTML spine item across a bounded
// worker pool and reports a monotonic completion fraction.
func (o *Orchestrator) translateSpine(ctx context.Context, workspaceDir, opfPath string, translateBatch page.TranslateFunc, progress func(float64)) error {
	paths, err := epubio.SpineXHTMLPaths(opfPath)
	if err != nil {
		return fmt.Errorf("%w: %v", bterrors.ErrMalformedEPUB, err)
	}
	if len(paths) == 0 {
		progress(1.0)
		return nil
	}

	var mu sync.Mutex
	completed := 0
	reportOne := func() {
		mu.Lock()
		defer mu.Unlock()
		completed++
		progress(float64(completed) / float64(len(paths)))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxThreads)

	pageTranslator := &page.Translator{
		Grouper:     grouper.New(o.cfg.MaxParagraph, o.cfg.GroupMaxTokens, grouper.Char, nil),
		Translate:   translateBatch,
		Method:      domtext.HTML,
		CleanFormat: o.cfg.CleanFormat,
	}

	for _, p := range paths {
		path := p
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				pageErr := &bterrors.PageError{Path: path, Cause: err}
				if o.cfg.BestEffort {
					o.logger.WithError(pageErr).Warn("skipping unreadable page")
					reportOne()
					return nil
				}
				return pageErr
			}

			translated, err := pageTranslator.TranslatePage(gCtx, string(raw), func(float64) {})
			if err != nil {
				pageErr := &bterrors.PageError{Path: path, Cause: err}
				if o.cfg.BestEffort {
					o.logger.WithError(pageErr).Warn("skipping page that failed to translate")
					reportOne()
					return nil
				}
				return pageErr
			}

			if err := os.WriteFile(path, []byte(translated), 0o644); err != nil {
				return &bterrors.PageError{Path: path, Cause: err}
			}

			reportOne()
			return nil
		})
	}

	return g.Wait()
}
