package services

import (
	"context"
	"fmt"
	"time"

	"brief-portal/internal/logger"
	"brief-portal/internal/models"
	"brief-portal/internal/pdf"
)

const exportURLExpiry = 15 * time.Minute

// ExportArchive keeps a copy of every exported PDF and hands out short-lived
// links to it.
type ExportArchive interface {
	Store(ctx context.Context, briefID, filename string, data []byte, now time.Time) (string, error)
	SignedURL(objectName string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, objectName string) error
}

type ExportResult struct {
	Filename string
	Data     []byte
	// ArchiveURL is set when the PDF was archived and can be opened
	// directly from storage.
	ArchiveURL string
}

type ExportService struct {
	pdf     *PDFService
	archive ExportArchive
	log     *logger.Logger
	now     func() time.Time
}

// NewExportService wires PDF conversion with an optional archive; archive
// may be nil.
func NewExportService(pdfService *PDFService, archive ExportArchive, log *logger.Logger) *ExportService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ExportService{pdf: pdfService, archive: archive, log: log.With("service", "export"), now: time.Now}
}

func (s *ExportService) ExportBrief(ctx context.Context, brief models.Brief, exporter *pdf.Exporter) (*ExportResult, error) {
	doc, err := pdf.Layout(brief, exporter, s.now())
	if err != nil {
		return nil, err
	}

	data, err := s.pdf.ConvertDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	result := &ExportResult{Filename: doc.Filename, Data: data}
	if s.archive == nil {
		return result, nil
	}

	objectName, err := s.archive.Store(ctx, brief.ID, doc.Filename, data, s.now())
	if err != nil {
		// the PDF is still served inline when archiving fails
		s.log.Warn("failed to archive exported PDF", "brief_id", brief.ID, "error", err)
		return result, nil
	}
	url, err := s.archive.SignedURL(objectName, exportURLExpiry)
	if err != nil {
		// nobody can reach an unsigned archive copy
		s.log.Warn("failed to sign archived PDF URL", "object", objectName, "error", err)
		if err := s.archive.Remove(ctx, objectName); err != nil {
			s.log.Warn("failed to remove unreachable archive copy", "object", objectName, "error", err)
		}
		return result, nil
	}
	result.ArchiveURL = url
	return result, nil
}
