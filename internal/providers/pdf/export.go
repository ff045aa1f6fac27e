package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	sessiondomain "github.com/welltrack/welltrack/internal/session/domain"
)

type PDFProvider struct{}

func (p *PDFProvider) GenerateExport(ctx context.Context, username string, sessions []sessiondomain.Session) (io.Reader, error) {
	_ = ctx

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "WellTrack Export", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, fmt.Sprintf("%s — %s", username, time.Now().UTC().Format("2006-01-02")), props.Text{
			Size: 10,
		}),
	)

	for _, s := range sessions {
		m.AddRow(6,
			text.NewCol(12, formatLine(s), props.Text{Size: 9}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func formatLine(s sessiondomain.Session) string {
	minutes := (s.Seconds + 30) / 60
	return fmt.Sprintf("%s • %s • %s • %d min • %s",
		s.CreatedAt.Format(time.RFC3339),
		s.Source,
		s.Name,
		minutes,
		s.Label,
	)
}
