package config

import (
	"errors"
	"fmt"

	"booktranslator/pkg/language"
)

// Validate enforces the language enum, thread/retry bounds, and required
// credentials, same shape as the teacher's Validate() adapted field for
// field to this domain's invocation parameters.
func (c *Config) Validate() error {
	if c.SourceFile == "" {
		return errors.New("source_file is required")
	}
	if !language.IsValid(c.Language) {
		return fmt.Errorf("language %q is not one of the recognised codes %v", c.Language, language.Codes())
	}
	if c.MaxChunkTokens <= 0 {
		return errors.New("max_chunk_tokens must be positive")
	}
	if c.MaxParagraph <= 0 {
		return errors.New("max_paragraph must be positive")
	}
	if c.MaxParagraph > c.MaxChunkTokens {
		return fmt.Errorf("max_paragraph (%d) must not exceed max_chunk_tokens (%d)", c.MaxParagraph, c.MaxChunkTokens)
	}
	if c.Threads <= 0 {
		return errors.New("threads must be a positive integer")
	}
	if c.RetryTimes < 0 {
		return errors.New("retry_times must be non-negative")
	}
	if c.RetryIntervalS < 0 {
		return errors.New("retry_interval_seconds must be non-negative")
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.APIKey == "" {
		return errors.New("api_key is required (set api_key or OPENAI_API_KEY)")
	}

	return nil
}
