// Package llm implements the Batch Translator (component E): it renders
// a numbered-line prompt for a batch of source strings, calls an
// OpenAI-compatible chat completion endpoint, parses the numbered
// response tolerating missing lines, and retries transient failures.
// Grounded on the teacher's pkg/categorizer/llm_categorizer.go narrow
// client interface and other_examples' oukeidos-focst translator.go
// retry/backoff shape, with prompting/parsing semantics from
// original_source/tasks/translater/transalter/llm.py.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"booktranslator/internal/bterrors"
)

// ChatCompleter is the narrow surface of an OpenAI-compatible client the
// translator depends on, so tests can substitute a mock instead of
// reaching the network.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var numberedLineRe = regexp.MustCompile(`^(\d+):\s?(.*)$`)

// Options configures one Translator.
type Options struct {
	Model         string
	Temperature   float32
	TopP          float32
	SourceLang    string // display name, empty means "detect the language"
	TargetLang    string // display name, required
	ExtraPrompt   string
	RetryTimes    int
	RetryInterval time.Duration
}

// Translator is the Batch Translator: given an ordered list of non-empty
// source strings it returns translations of equal length, empty string
// standing in for any line the model dropped.
type Translator struct {
	client  ChatCompleter
	opts    Options
	limiter *rate.Limiter
	logger  *logrus.Entry
}

// New builds a Translator. limiter paces outbound requests across all
// callers sharing it; logger receives each request and each response as
// separate Debug entries, and transport failures and retries as Warn entries.
func New(client ChatCompleter, opts Options, limiter *rate.Limiter, logger *logrus.Entry) *Translator {
	return &Translator{client: client, opts: opts, limiter: limiter, logger: logger}
}

// Translate sends sourceTexts as one batch and returns their translations
// in the same order, retrying transient and protocol-shape failures up to
// RetryTimes before surfacing the last error.
func (t *Translator) Translate(ctx context.Context, sourceTexts []string) ([]string, error) {
	prompt := buildUserPrompt(sourceTexts)
	systemPrompt := t.systemPrompt()

	var lastErr error
	for attempt := 0; attempt <= t.opts.RetryTimes; attempt++ {
		if attempt > 0 {
			t.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"error":   lastErr,
			}).Warn("retrying translation batch")
			select {
			case <-time.After(t.opts.RetryInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		translations, err := t.attempt(ctx, systemPrompt, prompt, len(sourceTexts))
		if err == nil {
			return translations, nil
		}
		lastErr = err
		if !bterrors.IsRetriable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("translation batch failed after %d attempts: %w", t.opts.RetryTimes+1, lastErr)
}

func (t *Translator) attempt(ctx context.Context, systemPrompt, userPrompt string, wantLines int) ([]string, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	entry := t.logger.WithField("lines", wantLines)
	entry.WithField("request", userPrompt).Debug("sending translation request")

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.opts.Model,
		Temperature: t.opts.Temperature,
		TopP:        t.opts.TopP,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		entry.WithError(err).Warn("translation request transport failure")
		return nil, &bterrors.Transient{Cause: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &bterrors.ProtocolShape{Detail: "response has no choices"}
	}

	content := resp.Choices[0].Message.Content
	entry.WithField("response", content).Debug("received translation response")

	return parseNumberedResponse(content, wantLines), nil
}

// systemPrompt builds the instruction telling the model the target (and
// optionally source) language, to keep one numbered line per input line,
// and to add no explanations, with any user-supplied extra prompt
// appended verbatim.
func (t *Translator) systemPrompt() string {
	source := t.opts.SourceLang
	if source == "" {
		source = "any language and you will detect the language"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional translator. Translate from %s to %s.\n", source, t.opts.TargetLang)
	b.WriteString("The user message contains numbered lines in the form \"N: text\". ")
	b.WriteString("Reply with exactly one numbered line per input line, preserving the same numbering, ")
	b.WriteString("translating only the text after the colon. Do not add explanations, notes, or extra lines.")

	if t.opts.ExtraPrompt != "" {
		b.WriteString("\n")
		b.WriteString(t.opts.ExtraPrompt)
	}

	return b.String()
}

// buildUserPrompt concatenates entries as "{1}: {text}\n{2}: {text}\n...",
// collapsing each entry's embedded newlines to spaces and trimming it
// first so the numbering stays one line per entry.
func buildUserPrompt(texts []string) string {
	var b strings.Builder
	for i, text := range texts {
		flattened := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		fmt.Fprintf(&b, "%d: %s\n", i+1, flattened)
	}
	return b.String()
}

// parseNumberedResponse splits content on newlines, keeping only lines
// matching "N: text"; out-of-range indices are dropped silently and
// missing indices are left as empty strings in the result.
func parseNumberedResponse(content string, wantLines int) []string {
	result := make([]string, wantLines)

	for _, line := range strings.Split(content, "\n") {
		match := numberedLineRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if index < 1 || index > wantLines {
			continue
		}
		result[index-1] = match[2]
	}

	return result
}
