package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"

	// progressEvery controls how often listeners hear about a running import.
	progressEvery = 100
)

type ProgressInfo struct {
	FileName     string    `json:"file_name"`
	TotalRecords int       `json:"total_records"`
	Processed    int       `json:"processed"`
	Skipped      int       `json:"skipped"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty"`
}

// RowRecorder observes the outcome of each imported row.
type RowRecorder interface {
	ImportRow(result string)
}

type nopRecorder struct{}

func (nopRecorder) ImportRow(string) {}

// ImportService loads reviewer rows from CSV files with the columns
// name, skill_score, experience_score, hire.
type ImportService struct {
	reviewers *ReviewerService
	log       *zap.Logger
	recorder  RowRecorder

	fileProgressMap   map[string]*ProgressInfo
	fileProgressLock  sync.RWMutex
	progressListeners map[chan *ProgressInfo]bool
	listenerLock      sync.RWMutex
}

func NewImportService(reviewers *ReviewerService, log *zap.Logger, recorder RowRecorder) *ImportService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ImportService{
		reviewers:         reviewers,
		log:               log.Named("import"),
		recorder:          recorder,
		fileProgressMap:   make(map[string]*ProgressInfo),
		progressListeners: make(map[chan *ProgressInfo]bool),
	}
}

func (s *ImportService) RegisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	s.progressListeners[ch] = true
}

func (s *ImportService) UnregisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	delete(s.progressListeners, ch)
}

// BroadcastProgress hands a copy to every listener that is ready; busy
// listeners miss the update.
func (s *ImportService) BroadcastProgress(progress *ProgressInfo) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.progressListeners {
		snapshot := *progress
		select {
		case listener <- &snapshot:
		default:
		}
	}
}

func (s *ImportService) GetFileProgress(fileName string) *ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

func (s *ImportService) GetAllFileProgress() []*ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	result := make([]*ProgressInfo, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	return result
}

// update applies fn to the file's progress under the lock and broadcasts the result.
func (s *ImportService) update(fileName string, fn func(p *ProgressInfo)) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		fn(progress)
		s.BroadcastProgress(progress)
	}
}

func (s *ImportService) fail(fileName string, err error) error {
	s.update(fileName, func(p *ProgressInfo) {
		p.Status = StatusError
		p.Error = err.Error()
		p.EndTime = time.Now()
	})
	s.log.Error("import failed", zap.String("file", fileName), zap.Error(err))
	return err
}

// ProcessCSV imports every row of the file. Rows that fail validation or
// name an existing reviewer are skipped and counted; I/O failures abort.
func (s *ImportService) ProcessCSV(ctx context.Context, filePath string) error {
	fileName := filepath.Base(filePath)
	startTime := time.Now()

	s.fileProgressLock.Lock()
	s.fileProgressMap[fileName] = &ProgressInfo{
		FileName:  fileName,
		Status:    StatusProcessing,
		StartTime: startTime,
	}
	s.fileProgressLock.Unlock()

	rows, err := readRows(filePath)
	if err != nil {
		return s.fail(fileName, err)
	}
	s.update(fileName, func(p *ProgressInfo) { p.TotalRecords = len(rows) })

	seen := make(map[string]bool, len(rows))
	processed, skipped := 0, 0
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return s.fail(fileName, err)
		}

		in, err := parseRow(row)
		if err == nil && seen[in.Name] {
			err = fmt.Errorf("duplicate name %s in file", in.Name)
		}
		if err == nil {
			_, err = s.reviewers.Create(ctx, in)
		}
		if err != nil {
			skipped++
			s.recorder.ImportRow("skipped")
			s.log.Debug("row skipped", zap.String("file", fileName), zap.Int("line", i+2), zap.Error(err))
		} else {
			seen[in.Name] = true
			s.recorder.ImportRow("imported")
		}
		processed++

		if processed%progressEvery == 0 {
			p, sk := processed, skipped
			s.update(fileName, func(pi *ProgressInfo) {
				pi.Processed = p
				pi.Skipped = sk
			})
		}
	}

	s.update(fileName, func(p *ProgressInfo) {
		p.Status = StatusCompleted
		p.Processed = processed
		p.Skipped = skipped
		p.EndTime = time.Now()
	})

	s.log.Info("import completed",
		zap.String("file", fileName),
		zap.Int("rows", processed),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(startTime)))
	return nil
}

// readRows returns the data rows of the CSV file, header excluded.
func readRows(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func parseRow(row []string) (ReviewerInput, error) {
	if len(row) < 1 || strings.TrimSpace(row[0]) == "" {
		return ReviewerInput{}, errors.New("missing name")
	}
	in := ReviewerInput{Name: strings.TrimSpace(row[0])}

	fields := []**int{&in.SkillScore, &in.ExperienceScore, &in.Hire}
	for i, dst := range fields {
		col := i + 1
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(row[col]))
		if err != nil {
			return ReviewerInput{}, fmt.Errorf("column %d: %w", col+1, err)
		}
		*dst = &v
	}
	return in, nil
}
