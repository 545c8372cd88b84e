package validator

import (
	"log/slog"

	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/scanner"
)

// LogPolicy returns error policy logging every error immediately at warning level.
func LogPolicy(logger *slog.Logger) scanner.ErrorPolicy {
	return scanner.ErrorPolicyFunc(func(ctx scanner.Context, section scanner.Section, cat vcfcheck.Category, message string) {
		logger.Warn(message,
			slog.String("source", ctx.SourceName()),
			slog.Int("line", ctx.Line()),
			slog.Int("col", ctx.Col()),
			slog.String("section", section.String()),
			slog.String("category", string(cat)))
	})
}

// TokenCounter is a parse policy counting tokens.
type TokenCounter struct {
	Tokens int
}

func (tc *TokenCounter) TokenBegin(int) {
	tc.Tokens++
}
