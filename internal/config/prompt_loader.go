package config

import (
	"fmt"
	"os"
)

// ResolveExtraPrompt interprets the prompt invocation parameter: empty
// means no extra prompt, a path to an existing file means load its
// content as the prompt text, and anything else is used verbatim as the
// extra system-prompt text appended to the built-in translator prompt.
func ResolveExtraPrompt(prompt string) (string, error) {
	if prompt == "" {
		return "", nil
	}

	info, err := os.Stat(prompt)
	if err != nil || info.IsDir() {
		return prompt, nil
	}

	content, err := os.ReadFile(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %q: %w", prompt, err)
	}
	return string(content), nil
}
