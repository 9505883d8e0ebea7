package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/utils"
)

type stageOutputRepository struct {
	dir string
	log *logger.Logger
}

// NewStageOutputRepository creates a repository that writes each agent
// stage output to a flat file named {timestamp}_{ticker}_{stage}.txt.
func NewStageOutputRepository(dir string, log *logger.Logger) (StageOutputRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &stageOutputRepository{dir: dir, log: log}, nil
}

func (r *stageOutputRepository) Save(stage entity.Stage, ticker, output string, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.txt", utils.FileTimestamp(at), utils.SanitizeFilename(ticker), stage)
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		r.log.Error("Failed to write stage output file", logger.ErrorField(err), logger.StringField("path", path))
		return "", fmt.Errorf("failed to write stage output file: %w", err)
	}

	r.log.Debug("Saved stage output", logger.StringField("stage", string(stage)), logger.StringField("path", path))
	return path, nil
}

func (r *stageOutputRepository) Dir() string {
	return r.dir
}
