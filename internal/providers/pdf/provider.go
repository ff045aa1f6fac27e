// Package pdf renders the printable usage export.
package pdf

import (
	"context"
	"io"

	sessiondomain "github.com/welltrack/welltrack/internal/session/domain"
)

type Provider interface {
	// GenerateExport renders the user's sessions, one line per session.
	GenerateExport(ctx context.Context, username string, sessions []sessiondomain.Session) (io.Reader, error)
}

func New() Provider {
	return &PDFProvider{}
}
