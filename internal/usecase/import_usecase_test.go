package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/extraction"
	"github.com/iho/draftledger/internal/usecase"
	"github.com/iho/draftledger/internal/usecase/mocks"
)

type importFixture struct {
	uc       *usecase.ImportUseCase
	client   *fakeInference
	sessions *memSessions
	txnRepo  *mocks.MockTransactionRepository
	catRepo  *mocks.MockCategoryRepository
	receipts *mocks.MockReceiptStore
}

func newImportFixture(t *testing.T, client *fakeInference, chunkSize int) *importFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &importFixture{
		client:   client,
		sessions: newMemSessions(),
		txnRepo:  mocks.NewMockTransactionRepository(ctrl),
		catRepo:  mocks.NewMockCategoryRepository(ctrl),
		receipts: mocks.NewMockReceiptStore(ctrl),
	}

	logger := zerolog.Nop()
	orchestrator := usecase.NewOrchestrator(client, nil, nil, logger, usecase.OrchestratorConfig{})
	committer := usecase.NewCommitter(f.txnRepo, f.catRepo, f.receipts, nil, &seqIDs{prefix: "txn"}, nil, logger)
	normalizer := extraction.NewNormalizer(extraction.WithClock(func() time.Time {
		return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	}))

	f.uc = usecase.NewImportUseCase(
		orchestrator,
		extraction.NewParser(),
		normalizer,
		f.sessions,
		committer,
		&seqIDs{prefix: "imp"},
		nil,
		logger,
		usecase.ImportConfig{DefaultCurrency: "INR", ChunkSize: chunkSize},
	)
	return f
}

func textDocument(text string) domain.Document {
	return domain.Document{Kind: domain.DocumentText, Filename: "statement.txt", Text: text}
}

func TestImportUseCase_Extract_EndToEnd(t *testing.T) {
	// Three chunks: two respond with overlapping records, one fails.
	client := &fakeInference{
		responses: map[string]string{
			"AAAA": `Here you go: [{"amount":"45.99","note":"Lunch","date":"2024-01-05T09:00:00Z"}]`,
			"CCCC": "```json\n" + `[{"amount":45.99,"note":"lunch","date":"2024-01-05T18:00:00Z"},{"amount":"₹1,200","type":"income","note":"Salary","date":"2024-01-31"}]` + "\n```",
		},
		failures: map[string]error{"BBBB": errUpstream},
	}
	f := newImportFixture(t, client, 4)

	session, err := f.uc.Extract(context.Background(), usecase.ExtractInput{
		AccountID: "acc-1",
		Document:  textDocument("AAAABBBBCCCC"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeDraftsFound, session.Outcome)
	assert.Equal(t, domain.ImportPending, session.Status)
	assert.Equal(t, "INR", session.Currency)
	assert.Equal(t, "imp-1", session.ID)
	assert.Nil(t, session.Receipt)

	require.Len(t, session.Drafts, 2)
	assert.Equal(t, "Lunch", session.Drafts[0].NoteText())
	assert.True(t, session.Drafts[0].IsExpense)
	assert.Equal(t, 0, session.Drafts[0].Chunk)
	assert.Equal(t, "Salary", session.Drafts[1].NoteText())
	assert.False(t, session.Drafts[1].IsExpense)
	assert.True(t, session.Drafts[1].Amount.Equal(decimal.NewFromInt(1200)))

	assert.Equal(t, domain.ExtractionStats{
		Chunks:       3,
		FailedChunks: 1,
		Decoded:      3,
		Normalized:   3,
		Collapsed:    1,
	}, session.Stats)

	stored, err := f.sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Drafts, stored.Drafts)
}

func TestImportUseCase_Extract_Outcomes(t *testing.T) {
	tests := []struct {
		name            string
		responses       map[string]string
		failures        map[string]error
		text            string
		wantOutcome     domain.ImportOutcome
		wantDiagnostics int
	}{
		{
			name:        "empty json array",
			responses:   map[string]string{"AAAA": "[]"},
			text:        "AAAA",
			wantOutcome: domain.OutcomeNoTransactions,
		},
		{
			name:            "unparseable output",
			responses:       map[string]string{"AAAA": "I could not find any transactions.", "BBBB": "sorry"},
			text:            "AAAABBBB",
			wantOutcome:     domain.OutcomeParseFailed,
			wantDiagnostics: 2,
		},
		{
			name:        "every unit failed",
			failures:    map[string]error{"AAAA": errUpstream},
			text:        "AAAA",
			wantOutcome: domain.OutcomeNoTransactions,
		},
		{
			name:            "one unit unparseable and one empty",
			responses:       map[string]string{"AAAA": "nothing here", "BBBB": "[]"},
			text:            "AAAABBBB",
			wantOutcome:     domain.OutcomeNoTransactions,
			wantDiagnostics: 1,
		},
		{
			name:        "records without amounts",
			responses:   map[string]string{"AAAA": `[{"note":"Lunch"}]`},
			text:        "AAAA",
			wantOutcome: domain.OutcomeNoTransactions,
		},
		{
			name:        "empty document",
			text:        "",
			wantOutcome: domain.OutcomeNoTransactions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeInference{responses: tt.responses, failures: tt.failures}
			f := newImportFixture(t, client, 4)

			session, err := f.uc.Extract(context.Background(), usecase.ExtractInput{
				AccountID: "acc-1",
				Currency:  "usd",
				Document:  textDocument(tt.text),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutcome, session.Outcome)
			assert.Len(t, session.Diagnostics, tt.wantDiagnostics)
			assert.Empty(t, session.Drafts)
			assert.Equal(t, "USD", session.Currency)
		})
	}
}

func TestImportUseCase_Extract_TruncatesDiagnostics(t *testing.T) {
	raw := strings.Repeat("x", usecase.MaxDiagnosticBytes*2)
	client := &fakeInference{responses: map[string]string{"AAAA": raw}}
	f := newImportFixture(t, client, 4)

	session, err := f.uc.Extract(context.Background(), usecase.ExtractInput{AccountID: "acc-1", Document: textDocument("AAAA")})
	require.NoError(t, err)

	require.Len(t, session.Diagnostics, 1)
	assert.Len(t, session.Diagnostics[0], usecase.MaxDiagnosticBytes)
}

func TestImportUseCase_Extract_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.ExtractInput
		wantErr error
	}{
		{
			name:    "missing account",
			input:   usecase.ExtractInput{Document: textDocument("AAAA")},
			wantErr: domain.ErrAccountRequired,
		},
		{
			name:    "bad currency",
			input:   usecase.ExtractInput{AccountID: "acc-1", Currency: "XYZ", Document: textDocument("AAAA")},
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:    "image without content",
			input:   usecase.ExtractInput{AccountID: "acc-1", Document: domain.Document{Kind: domain.DocumentImage}},
			wantErr: domain.ErrEmptyDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newImportFixture(t, &fakeInference{}, 4)
			_, err := f.uc.Extract(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.client.calls)
		})
	}
}

func TestImportUseCase_Extract_ImageKeepsReceipt(t *testing.T) {
	client := &fakeInference{image: `[{"amount":"250","note":"Fuel"}]`}
	f := newImportFixture(t, client, 4)

	img := &domain.Image{Filename: "receipt.jpg", MIMEType: "image/jpeg", Data: []byte{1, 2, 3}}
	session, err := f.uc.Extract(context.Background(), usecase.ExtractInput{
		AccountID: "acc-1",
		Document:  domain.Document{Kind: domain.DocumentImage, Image: img},
	})
	require.NoError(t, err)

	require.NotNil(t, session.Receipt)
	assert.Equal(t, img.Data, session.Receipt.Data)
	require.Len(t, session.Drafts, 1)
	assert.True(t, session.Drafts[0].DateInferred)
}

func TestImportUseCase_ConfirmImport(t *testing.T) {
	client := &fakeInference{image: `[{"amount":"250","note":"Fuel","category":"transport"}]`}
	f := newImportFixture(t, client, 4)
	ctx := context.Background()

	img := &domain.Image{Filename: "receipt.jpg", MIMEType: "image/jpeg", Data: []byte{1}}
	session, err := f.uc.Extract(ctx, usecase.ExtractInput{
		AccountID: "acc-1",
		Document:  domain.Document{Kind: domain.DocumentImage, Image: img},
	})
	require.NoError(t, err)

	f.catRepo.EXPECT().FindByNameContains(gomock.Any(), "transport").
		Return(&domain.Category{ID: "cat-transport", Name: "Transport"}, nil)
	f.txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txn *domain.Transaction) error {
			assert.Equal(t, "acc-1", txn.AccountID)
			assert.Equal(t, session.ID, txn.ImportID)
			assert.Equal(t, "cat-transport", txn.CategoryID)
			return nil
		})
	f.receipts.EXPECT().AttachReceipt(gomock.Any(), "txn-1", *img).Return("file:///receipts/txn-1.jpg", nil)

	summary, err := f.uc.ConfirmImport(ctx, session.ID, usecase.ConfirmInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.True(t, summary.ReceiptAttached)

	stored, err := f.sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportConfirmed, stored.Status)

	_, err = f.uc.ConfirmImport(ctx, session.ID, usecase.ConfirmInput{})
	assert.ErrorIs(t, err, domain.ErrImportNotPending)
}

func TestImportUseCase_ConfirmImport_EditedDrafts(t *testing.T) {
	client := &fakeInference{responses: map[string]string{"AAAA": `[{"amount":"10"},{"amount":"20"}]`}}
	f := newImportFixture(t, client, 4)
	ctx := context.Background()

	session, err := f.uc.Extract(ctx, usecase.ExtractInput{AccountID: "acc-1", Document: textDocument("AAAA")})
	require.NoError(t, err)
	require.Len(t, session.Drafts, 2)

	note := "edited"
	f.txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txn *domain.Transaction) error {
			assert.True(t, txn.Amount.Equal(decimal.NewFromInt(15)))
			assert.Equal(t, &note, txn.Note)
			assert.Equal(t, domain.UncategorizedCategoryID, txn.CategoryID)
			return nil
		})

	summary, err := f.uc.ConfirmImport(ctx, session.ID, usecase.ConfirmInput{Drafts: []usecase.DraftInput{
		{Amount: decimal.NewFromInt(15), Note: &note, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), IsExpense: true},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Submitted)
	assert.Equal(t, 1, summary.Created)
	assert.False(t, summary.ReceiptAttached)
}

func TestImportUseCase_ConfirmImport_Rejections(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   usecase.ConfirmInput
		wantErr error
	}{
		{
			name:    "empty list",
			input:   usecase.ConfirmInput{Drafts: []usecase.DraftInput{}},
			wantErr: domain.ErrNoDrafts,
		},
		{
			name: "zero amount",
			input: usecase.ConfirmInput{Drafts: []usecase.DraftInput{
				{Amount: decimal.NewFromInt(5), Date: day},
				{Amount: decimal.Zero, Date: day},
			}},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "missing date",
			input:   usecase.ConfirmInput{Drafts: []usecase.DraftInput{{Amount: decimal.NewFromInt(5)}}},
			wantErr: domain.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeInference{responses: map[string]string{"AAAA": `[{"amount":"10"}]`}}
			f := newImportFixture(t, client, 4)
			ctx := context.Background()

			session, err := f.uc.Extract(ctx, usecase.ExtractInput{AccountID: "acc-1", Document: textDocument("AAAA")})
			require.NoError(t, err)

			_, err = f.uc.ConfirmImport(ctx, session.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			stored, err := f.sessions.Get(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ImportPending, stored.Status, "a rejected confirmation leaves the session pending")
		})
	}
}

func TestImportUseCase_CancelImport(t *testing.T) {
	client := &fakeInference{responses: map[string]string{"AAAA": `[{"amount":"10"}]`}}
	f := newImportFixture(t, client, 4)
	ctx := context.Background()

	session, err := f.uc.Extract(ctx, usecase.ExtractInput{AccountID: "acc-1", Document: textDocument("AAAA")})
	require.NoError(t, err)

	cancelled, err := f.uc.CancelImport(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCancelled, cancelled.Status)

	_, err = f.uc.CancelImport(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrImportNotPending)

	_, err = f.uc.ConfirmImport(ctx, session.ID, usecase.ConfirmInput{})
	assert.ErrorIs(t, err, domain.ErrImportNotPending)

	_, err = f.uc.GetImport(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrImportNotFound)
}
