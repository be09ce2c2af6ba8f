package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mhoralek/pointmarket/internal/ledger"
	"github.com/mhoralek/pointmarket/internal/models"
)

type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) CreateSubmission(ctx context.Context, sub models.Submission) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepo) GetSubmissionByUID(ctx context.Context, uid string) (*models.Submission, error) {
	args := m.Called(ctx, uid)
	if res := args.Get(0); res != nil {
		return res.(*models.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubmissionRepo) ListSubmissionsByUser(ctx context.Context, userID int64) ([]models.Submission, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]models.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubmissionRepo) SumPendingPoints(ctx context.Context, userID int64) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockSubmissionRepo) ResolveSubmission(ctx context.Context, uid, status string, points float64, reason string) error {
	args := m.Called(ctx, uid, status, points, reason)
	return args.Error(0)
}

type MockLedgerWriter struct {
	mock.Mock
}

func (m *MockLedgerWriter) PointType(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerWriter) Credit(ctx context.Context, entry ledger.EntryRequest) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type recordingPublisher struct {
	routingKeys []string
	events      []any
	err         error
}

func (p *recordingPublisher) Publish(routingKey string, message any) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.events = append(p.events, message)
	return p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSubmissionCreate(t *testing.T) {
	repo := new(MockSubmissionRepo)
	repo.On("CreateSubmission", mock.Anything, mock.MatchedBy(func(sub models.Submission) bool {
		return sub.UserID == 7 && sub.Status == models.SubmissionPending && sub.UID != ""
	})).Return(int64(1), nil)

	svc := NewSubmissionService(repo, new(MockLedgerWriter), &recordingPublisher{}, testLogger())

	uid, err := svc.Create(context.Background(), 7, models.SubmissionRequest{
		Type:  models.SubmissionRealizace,
		Title: "Rekonstrukce koupelny",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)
	repo.AssertExpectations(t)
}

func TestSubmissionApproveCreditsAndPublishes(t *testing.T) {
	sub := &models.Submission{
		UID:    "abc",
		UserID: 7,
		Type:   models.SubmissionRealizace,
		Status: models.SubmissionPending,
		Title:  "Rekonstrukce koupelny",
	}
	repo := new(MockSubmissionRepo)
	repo.On("GetSubmissionByUID", mock.Anything, "abc").Return(sub, nil)
	repo.On("ResolveSubmission", mock.Anything, "abc", models.SubmissionApproved, 250.0, "").Return(nil)

	ledgerWriter := new(MockLedgerWriter)
	ledgerWriter.On("PointType", mock.Anything).Return("body", nil)
	ledgerWriter.On("Credit", mock.Anything, mock.MatchedBy(func(entry ledger.EntryRequest) bool {
		return entry.UserID == 7 && entry.Amount == 250 && entry.Reference == "realizace:abc"
	})).Return(nil)

	publisher := &recordingPublisher{}
	svc := NewSubmissionService(repo, ledgerWriter, publisher, testLogger())

	require.NoError(t, svc.Approve(context.Background(), "abc", 250))

	repo.AssertExpectations(t)
	ledgerWriter.AssertExpectations(t)
	require.Len(t, publisher.routingKeys, 1)
	assert.Equal(t, "submission.approved", publisher.routingKeys[0])
}

func TestSubmissionApproveLedgerFailure(t *testing.T) {
	sub := &models.Submission{UID: "abc", UserID: 7, Type: models.SubmissionFaktura}
	repo := new(MockSubmissionRepo)
	repo.On("GetSubmissionByUID", mock.Anything, "abc").Return(sub, nil)
	repo.On("ResolveSubmission", mock.Anything, "abc", models.SubmissionApproved, 100.0, "").Return(nil)

	ledgerWriter := new(MockLedgerWriter)
	ledgerWriter.On("PointType", mock.Anything).Return("body", nil)
	ledgerWriter.On("Credit", mock.Anything, mock.Anything).Return(errors.New("ledger down"))

	publisher := &recordingPublisher{}
	svc := NewSubmissionService(repo, ledgerWriter, publisher, testLogger())

	err := svc.Approve(context.Background(), "abc", 100)
	assert.Error(t, err)
	assert.Empty(t, publisher.routingKeys, "no event when the credit failed")
}

func TestSubmissionRejectPublishesReason(t *testing.T) {
	sub := &models.Submission{UID: "abc", UserID: 7, Type: models.SubmissionFaktura}
	repo := new(MockSubmissionRepo)
	repo.On("GetSubmissionByUID", mock.Anything, "abc").Return(sub, nil)
	repo.On("ResolveSubmission", mock.Anything, "abc", models.SubmissionRejected, 0.0, "chybí doklad").Return(nil)

	publisher := &recordingPublisher{}
	svc := NewSubmissionService(repo, new(MockLedgerWriter), publisher, testLogger())

	require.NoError(t, svc.Reject(context.Background(), "abc", "chybí doklad"))
	require.Len(t, publisher.routingKeys, 1)
	assert.Equal(t, "submission.rejected", publisher.routingKeys[0])

	event := publisher.events[0].(SubmissionEvent)
	assert.Equal(t, "chybí doklad", event.Reason)
}

func TestSubmissionPublishFailureDoesNotFailWorkflow(t *testing.T) {
	sub := &models.Submission{UID: "abc", UserID: 7, Type: models.SubmissionRealizace}
	repo := new(MockSubmissionRepo)
	repo.On("GetSubmissionByUID", mock.Anything, "abc").Return(sub, nil)
	repo.On("ResolveSubmission", mock.Anything, "abc", models.SubmissionRejected, 0.0, "x").Return(nil)

	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := NewSubmissionService(repo, new(MockLedgerWriter), publisher, testLogger())

	assert.NoError(t, svc.Reject(context.Background(), "abc", "x"))
}
