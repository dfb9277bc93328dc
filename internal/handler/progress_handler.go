package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"evaluation/internal/service"

	"go.uber.org/zap"
)

// ProgressSource exposes import progress.
type ProgressSource interface {
	GetFileProgress(fileName string) *service.ProgressInfo
	GetAllFileProgress() []*service.ProgressInfo
	RegisterProgressListener(ch chan *service.ProgressInfo)
	UnregisterProgressListener(ch chan *service.ProgressInfo)
}

type ProgressHandler struct {
	progress ProgressSource
	log      *zap.Logger
}

func NewProgressHandler(progress ProgressSource, log *zap.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, log: log.Named("progress")}
}

// GetFileProgress returns the progress for a specific file
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, errors.New("fileName parameter is required"))
		return
	}

	progress := h.progress.GetFileProgress(filepath.Base(fileName))
	if progress == nil {
		writeError(w, http.StatusNotFound, "FileNotFound", errors.New("file not found or not being processed"))
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// GetAllProgress returns the progress for all files being processed
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.progress.GetAllFileProgress())
}

// SSEProgress streams progress updates as Server-Sent Events until the client goes away.
func (h *ProgressHandler) SSEProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, CodeUnknown, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	progressChan := make(chan *service.ProgressInfo, 8)
	h.progress.RegisterProgressListener(progressChan)
	defer h.progress.UnregisterProgressListener(progressChan)

	for {
		select {
		case progress := <-progressChan:
			data, err := json.Marshal(progress)
			if err != nil {
				h.log.Warn("error marshaling progress", zap.Error(err))
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				h.log.Debug("error writing SSE data", zap.Error(err))
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			h.log.Debug("client disconnected")
			return
		}
	}
}
