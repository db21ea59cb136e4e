package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
)

type fakeLister struct {
	questions []domain.Question
	err       error
	gotSince  time.Time
	gotLimit  int
}

func (f *fakeLister) ListOpenSince(ctx context.Context, since time.Time, limit int) ([]domain.Question, error) {
	f.gotSince = since
	f.gotLimit = limit
	return f.questions, f.err
}

type fakePublisher struct {
	published []uuid.UUID
	failFor   map[uuid.UUID]bool
}

func (f *fakePublisher) PublishQuestionCreated(ctx context.Context, questionID uuid.UUID) error {
	if f.failFor[questionID] {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, questionID)
	return nil
}

func TestSweepRepublishesOpenQuestions(t *testing.T) {
	q1 := domain.Question{ID: uuid.New(), Status: domain.QuestionStatusOpen}
	q2 := domain.Question{ID: uuid.New(), Status: domain.QuestionStatusOpen}

	lister := &fakeLister{questions: []domain.Question{q1, q2}}
	pub := &fakePublisher{}

	s, err := New(Config{Questions: lister, Publisher: pub, Lookback: 30 * time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.published))
	}
	if pub.published[0] != q1.ID || pub.published[1] != q2.ID {
		t.Errorf("published wrong ids: %v", pub.published)
	}
	if lister.gotLimit != sweepBatchLimit {
		t.Errorf("limit = %d, want %d", lister.gotLimit, sweepBatchLimit)
	}

	// since должен быть примерно now-lookback.
	wantSince := time.Now().UTC().Add(-30 * time.Minute)
	if diff := lister.gotSince.Sub(wantSince); diff < -time.Minute || diff > time.Minute {
		t.Errorf("since = %v, want around %v", lister.gotSince, wantSince)
	}
}

func TestSweepEmptyWindow(t *testing.T) {
	lister := &fakeLister{}
	pub := &fakePublisher{}

	s, err := New(Config{Questions: lister, Publisher: pub})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events, want 0", len(pub.published))
	}
}

func TestSweepPartialPublishFailure(t *testing.T) {
	q1 := domain.Question{ID: uuid.New()}
	q2 := domain.Question{ID: uuid.New()}

	lister := &fakeLister{questions: []domain.Question{q1, q2}}
	pub := &fakePublisher{failFor: map[uuid.UUID]bool{q1.ID: true}}

	s, err := New(Config{Questions: lister, Publisher: pub})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = s.Sweep(context.Background())
	if err == nil {
		t.Fatal("expected error for partial failure")
	}
	// Второй вопрос всё равно опубликован.
	if len(pub.published) != 1 || pub.published[0] != q2.ID {
		t.Errorf("published = %v, want only %v", pub.published, q2.ID)
	}
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(Config{
		Questions: &fakeLister{},
		Publisher: &fakePublisher{},
		Schedule:  "not a cron expression",
	})
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
