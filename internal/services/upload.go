package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/logger"
	"brief-portal/internal/metrics"
	"brief-portal/internal/models"
)

// Signed upload URLs are requested with this lifetime, in seconds.
const signedURLExpiry = 3600

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// StagedFile is an uploaded file parked on local disk until it has been
// transferred to object storage.
type StagedFile struct {
	Name        string
	ContentType string
	Path        string
	Size        int64
}

type UploadService struct {
	api        *apiclient.Client
	stagingDir string
	log        *logger.Logger
}

func NewUploadService(api *apiclient.Client, stagingDir string, log *logger.Logger) *UploadService {
	if log == nil {
		log = logger.NewNop()
	}
	return &UploadService{api: api, stagingDir: stagingDir, log: log.With("service", "upload")}
}

// StageFile copies a multipart file into the staging directory.
func (s *UploadService) StageFile(header *multipart.FileHeader) (*StagedFile, error) {
	if err := os.MkdirAll(s.stagingDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	tempFile, err := os.CreateTemp(s.stagingDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	defer tempFile.Close()

	size, err := io.Copy(tempFile, src)
	if err != nil {
		os.Remove(tempFile.Name())
		return nil, fmt.Errorf("failed to stage file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &StagedFile{
		Name:        filepath.Base(header.Filename),
		ContentType: contentType,
		Path:        tempFile.Name(),
		Size:        size,
	}, nil
}

// UploadFile runs the three-step protocol for one file: request a signed
// URL, PUT the bytes, confirm. Each step must succeed before the next.
func (s *UploadService) UploadFile(ctx context.Context, briefID, sectionID string, file StagedFile) (string, error) {
	key := GenerateUploadKey(briefID, sectionID, file.Name, time.Now())

	var signed models.SignedURLResponse
	err := s.api.Post(ctx, "/upload/signed-url", models.SignedURLRequest{
		Key:         key,
		ExpiresIn:   signedURLExpiry,
		ContentType: file.ContentType,
	}, &signed, apiclient.Auth)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("signed_url_failed").Inc()
		return "", fmt.Errorf("failed to get upload URL for %s: %w", file.Name, err)
	}
	if signed.URL == "" {
		metrics.UploadsTotal.WithLabelValues("signed_url_failed").Inc()
		return "", fmt.Errorf("backend returned no upload URL for %s", file.Name)
	}
	if signed.Key != "" {
		key = signed.Key
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open staged file %s: %w", file.Name, err)
	}
	err = s.api.PutRaw(ctx, signed.URL, file.ContentType, f, file.Size)
	f.Close()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("transfer_failed").Inc()
		return "", fmt.Errorf("failed to upload %s: %w", file.Name, err)
	}

	err = s.api.Post(ctx, "/upload/confirm", models.UploadConfirmRequest{
		BriefID:   briefID,
		SectionID: sectionID,
		FileName:  file.Name,
		FileType:  file.ContentType,
		S3Key:     key,
	}, nil, apiclient.Auth)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("confirm_failed").Inc()
		return "", fmt.Errorf("failed to confirm upload of %s: %w", file.Name, err)
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	s.log.Info("document uploaded", "brief_id", briefID, "section_id", sectionID, "key", key)
	return key, nil
}

// UploadBatch uploads files one after another. The first failure stops the
// batch; keys of files that already went through are returned with the
// error and are not rolled back.
func (s *UploadService) UploadBatch(ctx context.Context, briefID, sectionID string, files []StagedFile) ([]string, error) {
	keys := make([]string, 0, len(files))
	for i, file := range files {
		key, err := s.UploadFile(ctx, briefID, sectionID, file)
		s.Discard(file)
		if err != nil {
			for _, rest := range files[i+1:] {
				s.Discard(rest)
			}
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Discard removes a staged file from disk.
func (s *UploadService) Discard(file StagedFile) {
	if file.Path == "" {
		return
	}
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove staged file", "path", file.Path, "error", err)
	}
}

func GenerateUploadKey(briefID, sectionID, filename string, now time.Time) string {
	name := unsafeKeyChars.ReplaceAllString(filepath.Base(filename), "_")
	return fmt.Sprintf("briefs/%s/sections/%s/%d_%s", briefID, sectionID, now.Unix(), name)
}
