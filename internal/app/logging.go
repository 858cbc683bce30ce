package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// exchangeLogHook writes every log entry whose "component" field is "llm"
// to its own numbered file under <workDir>/logs: one file per entry, not
// one per LLM exchange. internal/llm logs a request and its response as
// separate Debug entries, which the default Info level does not emit, so
// by default only transport failures and retries (Warn) are written.
type exchangeLogHook struct {
	dir     string
	counter int64
	mu      sync.Mutex
}

// AttachWorkspaceLogging creates <workDir>/logs and wires a hook that
// writes every "llm" component log entry to its own file there.
func AttachWorkspaceLogging(logger *logrus.Logger, workDir string) error {
	dir := filepath.Join(workDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	logger.AddHook(&exchangeLogHook{dir: dir})
	return nil
}

func (h *exchangeLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *exchangeLogHook) Fire(entry *logrus.Entry) error {
	if component, ok := entry.Data["component"]; !ok || component != "llm" {
		return nil
	}

	n := atomic.AddInt64(&h.counter, 1)
	path := filepath.Join(h.dir, fmt.Sprintf("exchange-%04d.log", n))

	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := entry.String()
	if err != nil {
		return err
	}
	_, err = f.WriteString(line)
	return err
}
