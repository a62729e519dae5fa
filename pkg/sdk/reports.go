package sdk

import (
	"context"
	"net/http"
)

// GeneratePreview renders the report and returns the preview document.
func (c *Client) GeneratePreview(ctx context.Context, req ReportRequest) (*Document, error) {
	return c.fetchBinary(ctx, http.MethodPost, "/preview", req)
}

func (c *Client) ExportPDF(ctx context.Context, req ReportRequest) (*Document, error) {
	return c.fetchBinary(ctx, http.MethodPost, "/export", req)
}

// DownloadReport fetches the PDF of a finished export job.
func (c *Client) DownloadReport(ctx context.Context, jobID string) (*Document, error) {
	return c.fetchBinary(ctx, http.MethodGet, "/download/"+escape(jobID), nil)
}
