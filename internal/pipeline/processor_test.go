package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/entity"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
	"github.com/joseph-ayodele/resume-parser/internal/heuristics"
	"github.com/joseph-ayodele/resume-parser/internal/migrate"
	"github.com/joseph-ayodele/resume-parser/internal/mocks"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
)

const janeDoe = "Jane Doe\nSoftware Engineer\njane.doe@example.com\n9876543210\nExperience\nNimbus Corp"

type fixture struct {
	db          *repository.DB
	candidates  repository.CandidateRepository
	resumes     repository.ResumeRepository
	extractions repository.ExtractionRepository
	text        *mocks.MockTextExtractor
	augmenter   *mocks.MockAugmenter
	logger      *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{Driver: repository.DriverSQLite, DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, migrate.Run(ctx, db.SQL(), db.Dialect(), logger))

	return &fixture{
		db:          db,
		candidates:  repository.NewCandidateRepository(db, logger),
		resumes:     repository.NewResumeRepository(db, logger),
		extractions: repository.NewExtractionRepository(db, logger),
		text:        mocks.NewMockTextExtractor(ctrl),
		augmenter:   mocks.NewMockAugmenter(ctrl),
		logger:      logger,
	}
}

func (f *fixture) processor(cfg Config, withAugmenter bool) *Processor {
	deps := Deps{
		Resumes:     f.resumes,
		Extractions: f.extractions,
		Text:        f.text,
		Fields:      heuristics.NewExtractor(),
	}
	if withAugmenter {
		deps.Augmenter = f.augmenter
	}
	return NewProcessor(f.logger, cfg, deps)
}

func (f *fixture) seed(t *testing.T, c *entity.Candidate) *entity.Resume {
	t.Helper()
	ctx := context.Background()
	c.ExtractionStatus = constants.ParseStatusParsing
	require.NoError(t, f.candidates.Create(ctx, c))
	r := &entity.Resume{
		CandidateID:  c.ID,
		OriginalName: "jane.pdf",
		MimeType:     constants.MimePDF,
		Content:      []byte("%PDF-1.4 fake"),
		Status:       constants.ParseStatusParsing,
	}
	require.NoError(t, f.resumes.Create(ctx, r))
	return r
}

func (f *fixture) expectText(text string) {
	f.text.EXPECT().Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc extract.Document) (extract.TextResult, error) {
			return extract.TextResult{Text: text, Pages: 1, Format: constants.PDF, Method: "pdf-text"}, nil
		})
}

func (f *fixture) assertState(t *testing.T, c *entity.Candidate, r *entity.Resume, ext constants.ExtractionStatus, parse constants.ParseStatus) *entity.Extraction {
	t.Helper()
	ctx := context.Background()
	e, err := f.extractions.Latest(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, ext, e.Status)

	gotC, err := f.candidates.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, parse, gotC.ExtractionStatus)

	gotR, err := f.resumes.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, parse, gotR.Status)
	return e
}

func TestProcessResume_HeuristicsOnly(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{}
	r := f.seed(t, c)
	f.expectText(janeDoe)

	id, err := f.processor(Config{}, false).ProcessResume(context.Background(), r.ID)
	require.NoError(t, err)

	e := f.assertState(t, c, r, constants.ExtractionStatusCompleted, constants.ParseStatusParsed)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, "heuristics", e.ModelName)
	assert.Equal(t, janeDoe, e.RawText)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, "jane.doe@example.com", e.Fields.Email)
	assert.Equal(t, "+919876543210", e.Fields.Phone)

	got, err := f.candidates.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "Software Engineer", got.Designation)
	assert.Equal(t, "Nimbus Corp", got.LatestCompany)
}

func TestProcessResume_AugmentationDisabledSkipsAugmenter(t *testing.T) {
	f := newFixture(t)
	r := f.seed(t, &entity.Candidate{})
	f.expectText(janeDoe)
	f.augmenter.EXPECT().Augment(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.processor(Config{AugmentEnabled: false}, true).ProcessResume(context.Background(), r.ID)
	require.NoError(t, err)
}

func TestProcessResume_AugmentationMerges(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{}
	r := f.seed(t, c)
	f.expectText("Jane Doe\njane.doe@example.com")
	f.augmenter.EXPECT().Model().Return("gpt-4o-mini").AnyTimes()
	f.augmenter.EXPECT().Augment(gomock.Any(), "Jane Doe\njane.doe@example.com").Return(&extract.Result{
		Fields: extract.Fields{Email: "jane.doe@example.com", Phone: "+911234567890"},
		Confidence: extract.Confidences{
			extract.FieldEmail: extract.ScalarConfidence(0.95),
			extract.FieldPhone: extract.ScalarConfidence(0.9),
		},
		Model: "gpt-4o-mini",
	}, nil)

	_, err := f.processor(Config{AugmentEnabled: true}, true).ProcessResume(context.Background(), r.ID)
	require.NoError(t, err)

	e := f.assertState(t, c, r, constants.ExtractionStatusCompleted, constants.ParseStatusParsed)
	assert.Equal(t, "heuristics+gpt-4o-mini", e.ModelName)
	assert.Equal(t, "+911234567890", e.Fields.Phone)
	assert.InDelta(t, 0.95, e.Confidence.Score(extract.FieldEmail), 1e-9)
	assert.InDelta(t, 0.9, e.Confidence.Score(extract.FieldPhone), 1e-9)
	assert.Equal(t, "Jane Doe", e.Fields.Name)
}

func TestProcessResume_AugmentationFailureKeepsHeuristics(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, text string) (*extract.Result, error)
	}{
		{"error", func(context.Context, string) (*extract.Result, error) { return nil, errors.New("upstream 500") }},
		{"panic", func(context.Context, string) (*extract.Result, error) { panic("bad response") }},
		{"no result", func(context.Context, string) (*extract.Result, error) { return nil, nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			c := &entity.Candidate{}
			r := f.seed(t, c)
			f.expectText(janeDoe)
			f.augmenter.EXPECT().Model().Return("gpt-4o-mini").AnyTimes()
			f.augmenter.EXPECT().Augment(gomock.Any(), gomock.Any()).DoAndReturn(tt.call)

			_, err := f.processor(Config{AugmentEnabled: true}, true).ProcessResume(context.Background(), r.ID)
			require.NoError(t, err)

			e := f.assertState(t, c, r, constants.ExtractionStatusCompleted, constants.ParseStatusParsed)
			assert.Equal(t, "heuristics", e.ModelName)
			assert.Equal(t, "Jane Doe", e.Fields.Name)
		})
	}
}

func TestProcessResume_AugmentTimeout(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{}
	r := f.seed(t, c)
	f.expectText(janeDoe)
	f.augmenter.EXPECT().Model().Return("slow").AnyTimes()
	f.augmenter.EXPECT().Augment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (*extract.Result, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := f.processor(Config{AugmentEnabled: true, AugmentTimeout: 20 * time.Millisecond}, true).
		ProcessResume(context.Background(), r.ID)
	require.NoError(t, err)
	e := f.assertState(t, c, r, constants.ExtractionStatusCompleted, constants.ParseStatusParsed)
	assert.Equal(t, "heuristics", e.ModelName)
}

func TestProcessResume_TextFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{}
	r := f.seed(t, c)
	f.text.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(extract.TextResult{}, errors.New("invalid document"))

	_, err := f.processor(Config{}, false).ProcessResume(context.Background(), r.ID)
	require.Error(t, err)

	e := f.assertState(t, c, r, constants.ExtractionStatusFailed, constants.ParseStatusFailed)
	assert.Nil(t, e.CompletedAt)
	require.NotNil(t, e.ErrorMessage)
	assert.Contains(t, *e.ErrorMessage, "invalid document")
	assert.True(t, e.Fields.IsEmpty())
}

func TestProcessResume_CancelledContextStillRecordsFailure(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{}
	r := f.seed(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	f.text.EXPECT().Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ extract.Document) (extract.TextResult, error) {
			cancel()
			return extract.TextResult{}, ctx.Err()
		})

	_, err := f.processor(Config{}, false).ProcessResume(ctx, r.ID)
	require.ErrorIs(t, err, context.Canceled)
	f.assertState(t, c, r, constants.ExtractionStatusFailed, constants.ParseStatusFailed)
}

func TestProcessResume_FieldExtractorPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{}
	r := f.seed(t, c)
	f.expectText(janeDoe)

	ctrl := gomock.NewController(t)
	fields := mocks.NewMockFieldExtractor(ctrl)
	fields.EXPECT().ExtractFields(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string) (extract.Result, error) { panic("index out of range") })

	p := NewProcessor(f.logger, Config{}, Deps{
		Resumes: f.resumes, Extractions: f.extractions, Text: f.text, Fields: fields,
	})
	id, err := p.ProcessResume(context.Background(), r.ID)
	require.ErrorIs(t, err, common.ErrInternal)
	assert.NotEqual(t, uuid.Nil, id)
	f.assertState(t, c, r, constants.ExtractionStatusFailed, constants.ParseStatusFailed)
}

func TestProcessResume_KeepsExistingCanonicalFields(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{LatestCompany: "Acme", Name: "Old Name"}
	r := f.seed(t, c)
	f.expectText("jane.doe@example.com")

	_, err := f.processor(Config{}, false).ProcessResume(context.Background(), r.ID)
	require.NoError(t, err)

	got, err := f.candidates.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.LatestCompany)
	assert.Equal(t, "Old Name", got.Name)
	assert.Equal(t, "jane.doe@example.com", got.PrimaryEmail)
}

func TestProcessResume_TruncatesStoredText(t *testing.T) {
	f := newFixture(t)
	c := &entity.Candidate{}
	r := f.seed(t, c)
	f.expectText("Jané Doe\njane.doe@example.com")

	_, err := f.processor(Config{MaxStoredTextChars: 4}, false).ProcessResume(context.Background(), r.ID)
	require.NoError(t, err)

	e := f.assertState(t, c, r, constants.ExtractionStatusCompleted, constants.ParseStatusParsed)
	assert.Equal(t, "Jané", e.RawText)
	assert.Equal(t, "jane.doe@example.com", e.Fields.Email, "extraction sees the full text")
}

func TestProcessResume_UnknownResume(t *testing.T) {
	f := newFixture(t)
	_, err := f.processor(Config{}, false).ProcessResume(context.Background(), uuid.New())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "", truncateRunes("", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 0))
}
