// Package storage keeps a copy of exported brief PDFs in a GCS bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const pdfContentType = "application/pdf"

// PDFArchive stores exported PDFs under exports/<brief id>/ and signs
// short-lived GET links to them.
type PDFArchive struct {
	client *storage.Client
	bucket string
}

func NewPDFArchive(ctx context.Context, bucketName, projectID, credentialsPath string) (*PDFArchive, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	if projectID != "" {
		opts = append(opts, option.WithQuotaProject(projectID))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &PDFArchive{client: client, bucket: bucketName}, nil
}

// Store writes one exported PDF and returns the object name it lives under.
func (a *PDFArchive) Store(ctx context.Context, briefID, filename string, data []byte, now time.Time) (string, error) {
	objectName := ObjectName(briefID, filename, now)
	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = pdfContentType
	w.ContentDisposition = fmt.Sprintf("inline; filename=%q", filename)

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish %s: %w", objectName, err)
	}
	return objectName, nil
}

func (a *PDFArchive) SignedURL(objectName string, expiry time.Duration) (string, error) {
	return a.client.Bucket(a.bucket).SignedURL(objectName, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
}

// Remove deletes an archived PDF. A missing object is not an error.
func (a *PDFArchive) Remove(ctx context.Context, objectName string) error {
	err := a.client.Bucket(a.bucket).Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", objectName, err)
	}
	return nil
}

func (a *PDFArchive) Close() error {
	return a.client.Close()
}

// ObjectName places an export under its brief, prefixed with the export
// time so repeated exports never collide.
func ObjectName(briefID, filename string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%d_%s", url.PathEscape(briefID), now.Unix(), filename)
}
