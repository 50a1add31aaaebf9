package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/ai"
	"github.com/spigell/internship-matcher/internal/logger"
	"github.com/spigell/internship-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	provider            = "gemini"
	defaultMaxLogLength = 200
	systemInstruction   = "You help students apply for internships. You write concise, honest application letters."
	noneProvided        = "none provided"
	unnamedApplicant    = "Your Name"
)

// Writer generates application letters with Gemini.
type Writer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewWriter(generator contentGenerator, maxLogLength int, log *zap.Logger) *Writer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Writer{
		generator: generator,
		logger:    logger.WithFields(log, logger.ProviderFields(provider, generator.Model())...),
		maxLogLen: maxLogLength,
	}
}

func (w *Writer) Write(ctx context.Context, req ai.LetterRequest) (string, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Company) == "" {
		return "", fmt.Errorf("title and company are required")
	}

	prompt := buildPrompt(req)

	w.logger.Debug("gemini letter request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	letter, err := w.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return "", err
	}

	letter = cleanLetter(letter)
	if letter == "" {
		return "", fmt.Errorf("gemini returned an empty letter")
	}

	w.logger.Debug("gemini letter response",
		zap.Int("response_length", utf8.RuneCountInString(letter)),
		zap.String("response_preview", utils.TruncateForLog(letter, w.maxLogLen)),
	)

	return letter, nil
}

func buildPrompt(req ai.LetterRequest) string {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = unnamedApplicant
	}

	replacer := strings.NewReplacer(
		"{{NAME}}", name,
		"{{TITLE}}", strings.TrimSpace(req.Title),
		"{{COMPANY}}", strings.TrimSpace(req.Company),
		"{{SKILLS}}", joinOrNone(req.Skills),
		"{{INTERESTS}}", joinOrNone(req.Interests),
	)

	return replacer.Replace(promptTemplate)
}

func joinOrNone(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return noneProvided
	}
	return strings.Join(cleaned, ", ")
}

// cleanLetter strips markdown code fences the model sometimes wraps replies in.
func cleanLetter(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```text")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
