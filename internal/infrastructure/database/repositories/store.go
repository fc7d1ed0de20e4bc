package repositories

import (
	"context"
	"log/slog"

	"prompt-records/internal/core/domain"
	apperrors "prompt-records/internal/pkg/errors"
	"gorm.io/gorm"
)

// Store is the engine-agnostic query façade over prompts and records.
// It is the single seam that touches the concrete storage engine; the
// operation set and its result shapes are identical on both engines.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore creates a new store over the process-wide connection
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		db:     db,
		logger: logger,
	}
}

// InsertPrompt creates a prompt row and returns it with the
// engine-assigned id and created_at populated.
func (s *Store) InsertPrompt(ctx context.Context, content string) (*domain.Prompt, error) {
	prompt := &domain.Prompt{Content: content}

	err := s.db.WithContext(ctx).Create(prompt).Error
	if err != nil {
		s.logger.Error("failed to insert prompt",
			slog.String("error", err.Error()))
		return nil, apperrors.PersistenceFailed(err)
	}

	return prompt, nil
}

// GetAllPrompts returns all prompt rows. Ordering is not guaranteed
// across engines.
func (s *Store) GetAllPrompts(ctx context.Context) ([]domain.Prompt, error) {
	var prompts []domain.Prompt

	err := s.db.WithContext(ctx).Find(&prompts).Error
	if err != nil {
		s.logger.Error("failed to get prompts",
			slog.String("error", err.Error()))
		return nil, apperrors.PersistenceFailed(err)
	}

	return prompts, nil
}

// DeleteAllPrompts removes every prompt row; the foreign key cascades
// to every record row owned by a deleted prompt.
func (s *Store) DeleteAllPrompts(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Prompt{}).
		Error

	if err != nil {
		s.logger.Error("failed to delete prompts",
			slog.String("error", err.Error()))
		return apperrors.PersistenceFailed(err)
	}

	return nil
}

// InsertRecords bulk-inserts record rows. No rows are returned.
func (s *Store) InsertRecords(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Create(&records).Error
	if err != nil {
		s.logger.Error("failed to insert records",
			slog.Int("record_count", len(records)),
			slog.String("error", err.Error()))
		return apperrors.PersistenceFailed(err)
	}

	return nil
}

// GetRecordsByPromptID returns all record rows with the given prompt id
func (s *Store) GetRecordsByPromptID(ctx context.Context, promptID int64) ([]domain.Record, error) {
	var records []domain.Record

	err := s.db.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Find(&records).
		Error

	if err != nil {
		s.logger.Error("failed to get records by prompt",
			slog.Int64("prompt_id", promptID),
			slog.String("error", err.Error()))
		return nil, apperrors.PersistenceFailed(err)
	}

	return records, nil
}

// GetAllRecords returns all record rows
func (s *Store) GetAllRecords(ctx context.Context) ([]domain.Record, error) {
	var records []domain.Record

	err := s.db.WithContext(ctx).Find(&records).Error
	if err != nil {
		s.logger.Error("failed to get records",
			slog.String("error", err.Error()))
		return nil, apperrors.PersistenceFailed(err)
	}

	return records, nil
}

// UpdateRecord sets title and description on the row with the given id
// and returns the updated row. A missing id yields (nil, nil): absence
// is an explicit empty result here, not an error.
func (s *Store) UpdateRecord(ctx context.Context, id int64, title *string, description string) (*domain.Record, error) {
	// Map form so a nil title writes SQL NULL instead of being skipped
	res := s.db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":       title,
			"description": description,
		})

	if res.Error != nil {
		s.logger.Error("failed to update record",
			slog.Int64("id", id),
			slog.String("error", res.Error.Error()))
		return nil, apperrors.PersistenceFailed(res.Error)
	}

	if res.RowsAffected == 0 {
		return nil, nil
	}

	var record domain.Record
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		s.logger.Error("failed to read back updated record",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return nil, apperrors.PersistenceFailed(err)
	}

	return &record, nil
}

// DeleteRecord removes the row with the given id. Deleting an id that
// does not exist is not an error.
func (s *Store) DeleteRecord(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).
		Delete(&domain.Record{}, id).
		Error

	if err != nil {
		s.logger.Error("failed to delete record",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return apperrors.PersistenceFailed(err)
	}

	return nil
}

// DeleteAllRecords removes every record row unconditionally
func (s *Store) DeleteAllRecords(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Record{}).
		Error

	if err != nil {
		s.logger.Error("failed to delete records",
			slog.String("error", err.Error()))
		return apperrors.PersistenceFailed(err)
	}

	return nil
}
