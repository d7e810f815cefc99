// Package prompts holds the oracle prompt templates used by the pipeline.
// Each JSON file maps prompt keys to template text and is embedded at
// compile time, so a missing prompt is a build artifact problem, not a
// runtime configuration problem.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	loadOnce  sync.Once
	templates map[string]map[string]string
	loadErr   error
)

// load parses every embedded prompt file exactly once.
func load() error {
	loadOnce.Do(func() {
		templates = make(map[string]map[string]string)

		entries, err := promptFiles.ReadDir(".")
		if err != nil {
			loadErr = fmt.Errorf("failed to read prompt files: %w", err)
			return
		}

		for _, entry := range entries {
			data, err := promptFiles.ReadFile(entry.Name())
			if err != nil {
				loadErr = fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
				return
			}

			var prompts map[string]string
			if err := json.Unmarshal(data, &prompts); err != nil {
				loadErr = fmt.Errorf("failed to parse prompt file %s: %w", entry.Name(), err)
				return
			}
			templates[entry.Name()] = prompts
		}
	})
	return loadErr
}

// Get retrieves a prompt template by filename and key, e.g.
// Get("resume.json", "score-resume").
func Get(filename, key string) (string, error) {
	if err := load(); err != nil {
		return "", err
	}

	prompts, ok := templates[filename]
	if !ok {
		return "", fmt.Errorf("unknown prompt file %q", filename)
	}

	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// MustGet is Get for prompts the pipeline cannot run without.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with values from data.
// Placeholders without a matching key are left in place.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result
}

// List returns all prompt keys in a file.
func List(filename string) ([]string, error) {
	if err := load(); err != nil {
		return nil, err
	}

	prompts, ok := templates[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %q", filename)
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	return keys, nil
}
