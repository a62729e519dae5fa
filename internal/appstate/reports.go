package appstate

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"grafanapdf/pkg/sdk"
)

var ErrEmptyReport = errors.New("the report layout has no panels")

// ReportRequest builds a render request from the draft, the time range, the selected
// template and the selected server.
func (s *Store) ReportRequest() sdk.ReportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.st.ReportLayout.clone()
	return sdk.ReportRequest{
		Rows:        d.Rows,
		Columns:     d.Columns,
		Panels:      d.Panels,
		TimeRange:   s.st.TimeRange,
		TemplateID:  s.st.SelectedTemplate,
		ServerID:    s.st.SelectedServerID,
		ClientJobID: uuid.NewString(),
	}
}

func (s *Store) GeneratePreview(ctx context.Context) (*sdk.Document, error) {
	return s.render(ctx, s.gw.GeneratePreview)
}

func (s *Store) ExportPDF(ctx context.Context) (*sdk.Document, error) {
	return s.render(ctx, s.gw.ExportPDF)
}

func (s *Store) render(ctx context.Context, call func(context.Context, sdk.ReportRequest) (*sdk.Document, error)) (*sdk.Document, error) {
	req := s.ReportRequest()
	if len(req.Panels) == 0 {
		return nil, s.fail(ErrEmptyReport)
	}

	s.begin()
	defer s.end()

	doc, err := call(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}
	return doc, nil
}
