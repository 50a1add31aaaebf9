package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/logger"
)

const defaultSignature = "Your Name"

// LetterRequest describes the application letter to write.
type LetterRequest struct {
	Name      string   `json:"name"`
	Title     string   `json:"title" validate:"required"`
	Company   string   `json:"company" validate:"required"`
	Skills    []string `json:"skills,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// LetterWriter produces an application letter for a listing.
type LetterWriter interface {
	Write(ctx context.Context, req LetterRequest) (string, error)
}

// Static fills a fixed application template.
type Static struct{}

func (Static) Write(_ context.Context, req LetterRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultSignature
	}

	return fmt.Sprintf("Dear Hiring Manager at %s,\n\n"+
		"I am writing to express my strong interest in the %s internship opportunity. "+
		"My skills and interests align closely with your company's mission.\n\n"+
		"Thank you for your time and consideration.\n\n"+
		"Sincerely,\n%s",
		strings.TrimSpace(req.Company), strings.TrimSpace(req.Title), name), nil
}

// Fallback asks Primary first and falls back to Secondary when it fails.
type Fallback struct {
	Primary   LetterWriter
	Secondary LetterWriter
	Logger    *zap.Logger
}

func (f *Fallback) Write(ctx context.Context, req LetterRequest) (string, error) {
	if f.Primary != nil {
		letter, err := f.Primary.Write(ctx, req)
		if err == nil {
			return letter, nil
		}
		logger.FromContext(ctx, f.Logger).Warn("letter generation failed, using static template",
			append(logger.ListingFields(req.Title, req.Company), zap.Error(err))...,
		)
	}

	secondary := f.Secondary
	if secondary == nil {
		secondary = Static{}
	}

	return secondary.Write(ctx, req)
}
