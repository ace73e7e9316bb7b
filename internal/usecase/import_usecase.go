package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/extraction"
)

// ImportConfig carries the extraction settings of the import use case.
type ImportConfig struct {
	DefaultCurrency string
	ChunkSize       int
}

// ImportUseCase runs extraction and holds its drafts at the confirmation gate.
type ImportUseCase struct {
	orchestrator *Orchestrator
	parser       *extraction.Parser
	normalizer   *extraction.Normalizer
	sessions     ImportSessionRepository
	committer    *Committer
	idGen        IDGenerator
	observer     Observer
	logger       zerolog.Logger
	now          func() time.Time
	cfg          ImportConfig
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(
	orchestrator *Orchestrator,
	parser *extraction.Parser,
	normalizer *extraction.Normalizer,
	sessions ImportSessionRepository,
	committer *Committer,
	idGen IDGenerator,
	observer Observer,
	logger zerolog.Logger,
	cfg ImportConfig,
) *ImportUseCase {
	if observer == nil {
		observer = NopObserver{}
	}

	return &ImportUseCase{
		orchestrator: orchestrator,
		parser:       parser,
		normalizer:   normalizer,
		sessions:     sessions,
		committer:    committer,
		idGen:        idGen,
		observer:     observer,
		logger:       logger.With().Str("component", "import").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
		cfg:          cfg,
	}
}

// ExtractInput represents input for extracting drafts from a document.
type ExtractInput struct {
	AccountID string
	Currency  string
	Document  domain.Document
}

// Extract segments the document, runs inference over every chunk, and stores
// the deduplicated drafts as a pending import session.
func (uc *ImportUseCase) Extract(ctx context.Context, input ExtractInput) (*domain.ImportSession, error) {
	if strings.TrimSpace(input.AccountID) == "" {
		return nil, domain.ErrAccountRequired
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = uc.cfg.DefaultCurrency
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	chunks, err := extraction.Chunks(input.Document, uc.cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	results := uc.orchestrator.Run(ctx, chunks, currency)

	stats := domain.ExtractionStats{Chunks: len(chunks)}
	var (
		drafts      []domain.DraftTransaction
		diagnostics []string
		responded   int
	)

	for _, r := range results {
		if r.Err != nil {
			stats.FailedChunks++
			continue
		}
		responded++

		records, strategy, ok := uc.parser.Parse(r.Raw)
		if !ok {
			stats.UnparsedChunks++
			uc.observer.ChunkParsed(extraction.StrategyNone)
			uc.logger.Warn().
				Int("chunk", r.Chunk.Index).
				Str("raw", truncate(r.Raw, 256)).
				Msg("no parse strategy matched inference output")
			diagnostics = append(diagnostics, truncate(r.Raw, MaxDiagnosticBytes))
			continue
		}
		uc.observer.ChunkParsed(strategy)
		stats.Decoded += len(records)

		normalized, discarded := uc.normalizer.NormalizeAll(records, r.Chunk.Index)
		uc.observer.DraftsDiscarded(discarded)
		drafts = append(drafts, normalized...)
	}

	stats.Normalized = len(drafts)
	kept, collapsed := extraction.Dedupe(drafts)
	stats.Collapsed = collapsed
	uc.observer.DraftsCollapsed(collapsed)

	outcome := domain.OutcomeNoTransactions
	switch {
	case len(kept) > 0:
		outcome = domain.OutcomeDraftsFound
	case responded > 0 && stats.UnparsedChunks == responded:
		outcome = domain.OutcomeParseFailed
	}

	now := uc.now()
	session := &domain.ImportSession{
		ID:          uc.idGen.Generate(),
		AccountID:   input.AccountID,
		Currency:    currency,
		Status:      domain.ImportPending,
		Outcome:     outcome,
		Drafts:      kept,
		Diagnostics: diagnostics,
		Stats:       stats,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Document.Kind == domain.DocumentImage && len(chunks) == 1 {
		session.Receipt = input.Document.Image
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save import session: %w", err)
	}

	uc.observer.ImportExtracted(outcome)
	uc.logger.Info().
		Str("import_id", session.ID).
		Str("outcome", string(outcome)).
		Int("chunks", stats.Chunks).
		Int("failed_chunks", stats.FailedChunks).
		Int("drafts", len(kept)).
		Msg("extraction finished")

	return session, nil
}

// GetImport returns an import session by ID.
func (uc *ImportUseCase) GetImport(ctx context.Context, id string) (*domain.ImportSession, error) {
	return uc.sessions.Get(ctx, id)
}

// CancelImport discards a pending import. Nothing is written to the ledger.
func (uc *ImportUseCase) CancelImport(ctx context.Context, id string) (*domain.ImportSession, error) {
	session, err := uc.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Status = domain.ImportCancelled
	session.UpdatedAt = uc.now()
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save import session: %w", err)
	}

	return session, nil
}

// DraftInput is one user-reviewed draft submitted for confirmation.
type DraftInput struct {
	Date         time.Time
	Note         *string
	CategoryHint *string
	Amount       decimal.Decimal
	IsExpense    bool
}

// ConfirmInput represents the user's reviewed subset of drafts.
// A nil Drafts confirms the stored drafts unchanged.
type ConfirmInput struct {
	Drafts []DraftInput
}

// ConfirmImport validates the reviewed drafts, closes the session and commits them.
func (uc *ImportUseCase) ConfirmImport(ctx context.Context, id string, input ConfirmInput) (*domain.CommitSummary, error) {
	session, err := uc.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	drafts := session.Drafts
	if input.Drafts != nil {
		drafts = make([]domain.DraftTransaction, 0, len(input.Drafts))
		for _, d := range input.Drafts {
			drafts = append(drafts, domain.DraftTransaction{
				Date:         d.Date,
				Note:         d.Note,
				CategoryHint: d.CategoryHint,
				Amount:       d.Amount,
				IsExpense:    d.IsExpense,
			})
		}
	}
	if len(drafts) == 0 {
		return nil, domain.ErrNoDrafts
	}

	for i, d := range drafts {
		if err := domain.ValidateDraft(d); err != nil {
			return nil, fmt.Errorf("draft %d: %w", i, err)
		}
	}

	// Close the gate before writing so a retried confirm cannot commit twice.
	session.Status = domain.ImportConfirmed
	session.UpdatedAt = uc.now()
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save import session: %w", err)
	}

	summary := uc.committer.Commit(ctx, CommitInput{
		AccountID: session.AccountID,
		ImportID:  session.ID,
		Drafts:    drafts,
		Receipt:   session.Receipt,
	})

	uc.logger.Info().
		Str("import_id", session.ID).
		Int("submitted", summary.Submitted).
		Int("created", summary.Created).
		Int("failed", summary.Failed).
		Bool("receipt_attached", summary.ReceiptAttached).
		Msg("import confirmed")

	return &summary, nil
}

func (uc *ImportUseCase) pending(ctx context.Context, id string) (*domain.ImportSession, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsPending() {
		return nil, domain.ErrImportNotPending
	}
	return session, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
