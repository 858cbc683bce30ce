package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	responses []openai.ChatCompletionResponse
	errs      []error
	calls     int
}

func (m *mockCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return openai.ChatCompletionResponse{}, m.errs[i]
	}
	return m.responses[i], nil
}

func newTranslator(client ChatCompleter) *Translator {
	return New(client, Options{
		Model:         "gpt-test",
		TargetLang:    "French",
		RetryTimes:    2,
		RetryInterval: time.Millisecond,
	}, nil, logrus.NewEntry(logrus.New()))
}

func respond(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}
}

func TestTranslateAlignmentWithMissingLine(t *testing.T) {
	client := &mockCompleter{responses: []openai.ChatCompletionResponse{respond("1: A\n3: C")}}
	tr := newTranslator(client)

	out, err := tr.Translate(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "", "C"}, out)
}

func TestTranslateRetriesOnTransportErrorThenSucceeds(t *testing.T) {
	client := &mockCompleter{
		errs:      []error{errors.New("conn reset"), nil},
		responses: []openai.ChatCompletionResponse{{}, respond("1: hola")},
	}
	tr := newTranslator(client)

	out, err := tr.Translate(context.Background(), []string{"hi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hola"}, out)
	assert.Equal(t, 2, client.calls)
}

func TestTranslateFailsAfterRetryExhaustion(t *testing.T) {
	client := &mockCompleter{errs: []error{
		errors.New("e1"), errors.New("e2"), errors.New("e3"),
	}, responses: []openai.ChatCompletionResponse{{}, {}, {}}}
	tr := newTranslator(client)

	_, err := tr.Translate(context.Background(), []string{"hi"})
	assert.Error(t, err)
	assert.Equal(t, 3, client.calls)
}

func TestTranslateNoChoicesIsProtocolShapeAndRetriable(t *testing.T) {
	client := &mockCompleter{responses: []openai.ChatCompletionResponse{{}, respond("1: ok")}}
	tr := newTranslator(client)

	out, err := tr.Translate(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, out)
}

func TestBuildUserPromptFlattensNewlines(t *testing.T) {
	got := buildUserPrompt([]string{"line one\nline two", " trimmed "})
	assert.Equal(t, "1: line one line two\n2: trimmed\n", got)
}

func TestParseNumberedResponseIgnoresOutOfRangeAndNonNumericLines(t *testing.T) {
	got := parseNumberedResponse("garbage\n1: A\n9: ignored\n2: B", 2)
	assert.Equal(t, []string{"A", "B"}, got)
}
