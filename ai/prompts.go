package ai

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"datadash/internal"
)

//go:embed prompts/*.txt
var builtinPrompts embed.FS

// PromptQuestionAnswer is the template used to answer dataset questions
const PromptQuestionAnswer = "question_answer"

// PromptManager - Simple prompt loader over a directory of .txt templates
type PromptManager struct {
	prompts fs.FS
}

// NewPromptManager loads templates from promptsDir, or from the templates
// compiled into the binary when promptsDir is empty
func NewPromptManager(promptsDir string) *PromptManager {
	if promptsDir == "" {
		sub, _ := fs.Sub(builtinPrompts, "prompts")
		return &PromptManager{prompts: sub}
	}
	internal.DefaultLogger.Info("[PromptManager] Loading prompts from directory: %s", promptsDir)
	return &PromptManager{prompts: os.DirFS(promptsDir)}
}

// LoadPrompt loads a prompt template by name
func (pm *PromptManager) LoadPrompt(name string) (string, error) {
	content, err := fs.ReadFile(pm.prompts, path.Clean(name)+".txt")
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("prompt template not found: %s", name)
		}
		return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
	}

	return strings.TrimRight(string(content), "\n"), nil
}

// RenderPrompt replaces {PLACEHOLDER} with values. Replacement happens in a
// single pass so placeholder-like text inside values is left alone.
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	template, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	pairs := make([]string, 0, len(replacements)*2)
	for placeholder, value := range replacements {
		pairs = append(pairs, "{"+placeholder+"}", value)
	}

	return strings.NewReplacer(pairs...).Replace(template), nil
}
