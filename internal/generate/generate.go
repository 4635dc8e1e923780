// Package generate orchestrates CV and cover letter generation: quota
// enforcement, streaming, post-processing and persistence.
package generate

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dizid/unplugged-cv/internal/billing"
	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/prompts"
	"github.com/dizid/unplugged-cv/internal/types"
)

// MinBackgroundLen is the minimum trimmed career background length worth a
// model call.
const MinBackgroundLen = 10

// coverLetterTimeout bounds the detached cover letter call; it runs after
// the originating request has already been answered.
const coverLetterTimeout = 2 * time.Minute

// Store is the persistence surface the orchestrator needs.
type Store interface {
	CreateApplication(ctx context.Context, app *types.Application) error
	IncrementUsage(ctx context.Context, userID string) error
	AttachCoverLetter(ctx context.Context, id uuid.UUID, userID, letter string) error
}

// GenerateRequest carries one CV generation job.
type GenerateRequest struct {
	Background     string
	JobDescription string
	// ParsedJob, when present, enables the follow-up cover letter for
	// entitled accounts.
	ParsedJob *types.JobRequirements
	// Account is nil for anonymous callers; quota applies only when set.
	Account *types.Account
	// SkipQuota is set when the caller presented a valid bypass token.
	SkipQuota bool
}

// GenerateResult is the outcome of a CV generation.
type GenerateResult struct {
	// CV is the cleaned document, with the suggestions block removed.
	CV        string
	ModelUsed string
	// Application is the persisted record, nil for anonymous callers or
	// when persistence failed.
	Application *types.Application
}

// Orchestrator runs the generation pipeline.
type Orchestrator struct {
	client llm.Client
	store  Store
	quota  *billing.Guard
	logger *slog.Logger
	tasks  errgroup.Group
}

// New creates an Orchestrator. store may be nil when persistence is not
// wired (anonymous-only deployments).
func New(client llm.Client, store Store, quota *billing.Guard, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if quota == nil {
		quota = billing.NewGuard(0, "")
	}
	o := &Orchestrator{
		client: client,
		store:  store,
		quota:  quota,
		logger: logger,
	}
	o.tasks.SetLimit(4)
	return o
}

// GenerateCV generates a CV from the request's background, streaming raw
// chunks to emit as they arrive (emit may be nil). The returned result
// carries the cleaned document; for authenticated callers it is persisted
// as a draft application and the free-tier counter is advanced. Entitled
// callers with a parsed job additionally get a cover letter generated in
// the background and attached to the application.
func (o *Orchestrator) GenerateCV(ctx context.Context, req GenerateRequest, emit func(chunk string) error) (*GenerateResult, error) {
	if len(strings.TrimSpace(req.Background)) < MinBackgroundLen {
		return nil, &types.InputTooShortError{What: "career background", Min: MinBackgroundLen}
	}

	if req.Account != nil && !req.SkipQuota && !o.quota.Allow(req.Account) {
		return nil, &billing.QuotaExceededError{}
	}

	cfg := llm.GenerationConfig{
		MaxOutputTokens: 8192,
		Temperature:     llm.TemperatureCreative,
	}

	var sb strings.Builder
	err := o.client.Stream(ctx, prompts.CVUser(req.Background, req.JobDescription), prompts.CVSystem(), cfg, func(chunk string) error {
		sb.WriteString(chunk)
		if emit != nil {
			return emit(chunk)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		CV:        StripSuggestions(sb.String()),
		ModelUsed: llm.DefaultModel,
	}

	if req.Account == nil || o.store == nil {
		return result, nil
	}

	app, err := o.persist(ctx, req, result.CV)
	if err != nil {
		// The caller already has the streamed document; losing the draft
		// record is not worth failing the request over.
		o.logger.Error("failed to persist generated CV", "user_id", req.Account.ID, "error", err)
		return result, nil
	}
	result.Application = app

	if err := o.store.IncrementUsage(ctx, req.Account.ID); err != nil {
		o.logger.Warn("failed to advance free-tier counter", "user_id", req.Account.ID, "error", err)
	}

	if req.Account.HasPaid && req.ParsedJob != nil {
		o.spawnCoverLetter(app.ID, req.Account.ID, result.CV, req.ParsedJob)
	}

	return result, nil
}

func (o *Orchestrator) persist(ctx context.Context, req GenerateRequest, cv string) (*types.Application, error) {
	app := &types.Application{
		ID:             uuid.New(),
		UserID:         req.Account.ID,
		JobDescription: req.JobDescription,
		GeneratedCV:    cv,
		ModelUsed:      llm.DefaultModel,
		Status:         types.StatusDraft,
	}
	if req.ParsedJob != nil {
		app.JobTitle = req.ParsedJob.Title
		app.CompanyName = req.ParsedJob.Company
		if parsed, err := json.Marshal(req.ParsedJob); err == nil {
			app.ParsedJob = parsed
		}
	}

	if err := o.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// spawnCoverLetter generates and attaches a cover letter without blocking
// the originating request. A failure leaves the application without a
// letter; the caller can regenerate it explicitly. When the task pool is
// saturated the letter is dropped rather than making the request wait for
// a slot.
func (o *Orchestrator) spawnCoverLetter(appID uuid.UUID, userID, cv string, req *types.JobRequirements) {
	started := o.tasks.TryGo(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), coverLetterTimeout)
		defer cancel()

		letter, err := o.GenerateCoverLetter(ctx, cv, req, nil, nil)
		if err != nil {
			o.logger.Warn("background cover letter failed", "application_id", appID, "error", err)
			return nil
		}
		if err := o.store.AttachCoverLetter(ctx, appID, userID, letter); err != nil {
			o.logger.Warn("failed to attach cover letter", "application_id", appID, "error", err)
		}
		return nil
	})
	if !started {
		o.logger.Warn("cover letter task pool saturated, skipping", "application_id", appID)
	}
}

// Wait blocks until in-flight background work has drained. Called on
// shutdown.
func (o *Orchestrator) Wait() {
	_ = o.tasks.Wait()
}
