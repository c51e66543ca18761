package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"brief-portal/internal/logger"
	"brief-portal/internal/metrics"
	"brief-portal/internal/pdf"

	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
)

const defaultPDFTimeout = 30 * time.Second

type PDFService struct {
	client  *gotenberg.Client
	timeout time.Duration
}

func NewPDFService(gotenbergURL string, timeoutStr string, log *logger.Logger) (*PDFService, error) {
	if log == nil {
		log = logger.NewNop()
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = defaultPDFTimeout
		log.Warn("invalid Gotenberg timeout, using default", "timeout", timeoutStr, "default", defaultPDFTimeout, "error", err)
	}

	httpClient := &http.Client{
		Timeout: timeout,
	}

	client, err := gotenberg.NewClient(gotenbergURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &PDFService{
		client:  client,
		timeout: timeout,
	}, nil
}

// ConvertDocument renders a laid out brief to PDF bytes through Gotenberg's
// Chromium route. Page numbers come from the footer template.
func (s *PDFService) ConvertDocument(ctx context.Context, doc *pdf.Document) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.PDFRenderDuration.Observe(time.Since(start).Seconds())
	}()

	convertCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	index, err := document.FromString("index.html", doc.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to create document from layout: %w", err)
	}
	footer, err := document.FromString("footer.html", doc.FooterHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to create footer document: %w", err)
	}

	req := gotenberg.NewHTMLRequest(index)
	req.Footer(footer)

	resp, err := s.client.Send(convertCtx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pdf conversion failed with status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted document: %w", err)
	}
	return data, nil
}

func (s *PDFService) Close() error {
	// Gotenberg client doesn't need explicit closing
	return nil
}
