package generation

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"prompt-records/internal/core/domain"
	"prompt-records/internal/infrastructure/database/repositories"
	"prompt-records/internal/infrastructure/llm"
	apperrors "prompt-records/internal/pkg/errors"
)

// Service owns the generation-and-persist workflows. It sequences the
// purge-and-recreate steps itself; the steps are individual store
// calls and are deliberately not wrapped in one transaction, matching
// the observable behavior of the original workflow.
type Service struct {
	store    *repositories.Store
	provider llm.Provider
	logger   *slog.Logger
}

// NewService creates a new generation service
func NewService(store *repositories.Store, provider llm.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// SubmitPrompt replaces everything: purge existing prompts and records,
// persist the new prompt, generate structured records for it, persist
// them, and read them back. Order is records purge, prompts purge,
// prompt insert, generate, records insert, read-back.
func (s *Service) SubmitPrompt(ctx context.Context, content string) (*SubmitResult, error) {
	if content == "" {
		return nil, apperrors.InvalidInput("Prompt cannot be empty")
	}

	requestID := uuid.New()
	log := s.logger.With(slog.String("request_id", requestID.String()))

	log.Info("submitting prompt", slog.Int("content_len", len(content)))

	if err := s.store.DeleteAllRecords(ctx); err != nil {
		return nil, err
	}
	if err := s.store.DeleteAllPrompts(ctx); err != nil {
		return nil, err
	}

	prompt, err := s.store.InsertPrompt(ctx, content)
	if err != nil {
		return nil, err
	}

	response, err := s.provider.GenerateResponse(ctx, content)
	if err != nil {
		log.Error("generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	toInsert := make([]domain.Record, 0, len(response.Records))
	for _, rec := range response.Records {
		toInsert = append(toInsert, domain.Record{
			PromptID:    prompt.ID,
			Title:       coalesceGeneratedTitle(rec.Title),
			Description: rec.Description,
		})
	}

	if err := s.store.InsertRecords(ctx, toInsert); err != nil {
		return nil, err
	}

	records, err := s.store.GetRecordsByPromptID(ctx, prompt.ID)
	if err != nil {
		return nil, err
	}

	log.Info("prompt processed",
		slog.Int64("prompt_id", prompt.ID),
		slog.Int("record_count", len(records)))

	return &SubmitResult{
		Prompt:  prompt,
		Records: records,
	}, nil
}

// UpdateRecord applies an explicit update to one record. A missing id
// is a not-found result, not a storage failure.
func (s *Service) UpdateRecord(ctx context.Context, id int64, input UpdateRecordInput) (*domain.Record, error) {
	if input.Description == "" {
		return nil, apperrors.InvalidInput("Description cannot be empty")
	}

	record, err := s.store.UpdateRecord(ctx, id, coalesceUpdateTitle(input.Title), input.Description)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NotFound("record")
	}

	return record, nil
}

// DeleteRecord removes one record; deleting an unknown id succeeds.
func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	return s.store.DeleteRecord(ctx, id)
}

// Records returns all persisted records
func (s *Service) Records(ctx context.Context) ([]domain.Record, error) {
	return s.store.GetAllRecords(ctx)
}

// CurrentPrompt returns the single active prompt, or nil when none exists
func (s *Service) CurrentPrompt(ctx context.Context) (*domain.Prompt, error) {
	prompts, err := s.store.GetAllPrompts(ctx)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, nil
	}
	return &prompts[0], nil
}

// coalesceGeneratedTitle applies the insertion rule for generated
// output: an absent or empty title becomes NULL.
func coalesceGeneratedTitle(title *string) *string {
	if title == nil || *title == "" {
		return nil
	}
	return title
}

// coalesceUpdateTitle applies the explicit-update rule: only an absent
// title becomes NULL; an explicit empty string is preserved. This
// deliberately differs from coalesceGeneratedTitle.
func coalesceUpdateTitle(title *string) *string {
	return title
}
