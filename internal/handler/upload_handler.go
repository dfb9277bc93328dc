package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const maxUploadBytes = 100 << 20

// Importer processes one saved CSV file.
type Importer interface {
	ProcessCSV(ctx context.Context, filePath string) error
}

type UploadHandler struct {
	importer  Importer
	uploadDir string
	log       *zap.Logger
	// lifetime outlives the upload request; imports stop when it is cancelled.
	lifetime context.Context
}

// NewUploadHandler runs imports under lifetime.
func NewUploadHandler(lifetime context.Context, importer Importer, uploadDir string, log *zap.Logger) *UploadHandler {
	return &UploadHandler{importer: importer, uploadDir: uploadDir, log: log.Named("upload"), lifetime: lifetime}
}

// UploadCSV saves every file of the "files" field and imports each in the
// background. It answers 202 with the accepted file names.
func (h *UploadHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.log.Error("failed to create upload directory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeUnknown, errors.New("failed to create upload directory"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, CodeValidation, errors.New("file too large or bad request"))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidation, errors.New("no files uploaded"))
		return
	}

	fileNames := make([]string, 0, len(files))
	for _, header := range files {
		name := filepath.Base(header.Filename)
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			h.log.Warn("skipping non-csv upload", zap.String("file", name))
			continue
		}

		savePath := filepath.Join(h.uploadDir, name)
		if err := saveUpload(header, savePath); err != nil {
			h.log.Error("failed to save upload", zap.String("file", name), zap.Error(err))
			continue
		}
		fileNames = append(fileNames, name)

		go func(filePath string) {
			if err := h.importer.ProcessCSV(h.lifetime, filePath); err != nil {
				h.log.Error("import failed", zap.String("file", filePath), zap.Error(err))
			}
		}(savePath)
	}

	if len(fileNames) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidation, errors.New("no csv files accepted"))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"message": "Files uploaded successfully and processing started",
		"files":   fileNames,
	})
}

func saveUpload(header *multipart.FileHeader, savePath string) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	outFile, err := os.Create(savePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, file); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}
