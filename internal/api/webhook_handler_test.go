package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type fakeEvents struct {
	published []uuid.UUID
	err       error
}

func (f *fakeEvents) PublishQuestionCreated(ctx context.Context, questionID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, questionID)
	return nil
}

func newWebhookHandler(events *fakeEvents) *Handler {
	return NewHandler(Config{
		Events: events,
		Logger: slog.Default(),
	})
}

func postWebhook(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/question-created", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.QuestionCreatedWebhook(rec, req)
	return rec
}

func TestWebhookExtractsRecordID(t *testing.T) {
	id := uuid.New()
	events := &fakeEvents{}
	h := newWebhookHandler(events)

	rec := postWebhook(h, `{"record":{"id":"`+id.String()+`"}}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}
	if len(events.published) != 1 || events.published[0] != id {
		t.Errorf("published = %v, want [%v]", events.published, id)
	}
}

func TestWebhookExtractsNestedPayloadRecordID(t *testing.T) {
	id := uuid.New()
	events := &fakeEvents{}
	h := newWebhookHandler(events)

	rec := postWebhook(h, `{"payload":{"record":{"id":"`+id.String()+`"}}}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}
	if len(events.published) != 1 || events.published[0] != id {
		t.Errorf("published = %v, want [%v]", events.published, id)
	}
}

func TestWebhookExtractsQuestionIDField(t *testing.T) {
	id := uuid.New()
	events := &fakeEvents{}
	h := newWebhookHandler(events)

	rec := postWebhook(h, `{"question_id":"`+id.String()+`"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}
	if len(events.published) != 1 || events.published[0] != id {
		t.Errorf("published = %v, want [%v]", events.published, id)
	}
}

func TestWebhookPrefersRecordIDOverFallbacks(t *testing.T) {
	recordID := uuid.New()
	otherID := uuid.New()
	events := &fakeEvents{}
	h := newWebhookHandler(events)

	body := `{"record":{"id":"` + recordID.String() + `"},"question_id":"` + otherID.String() + `"}`
	rec := postWebhook(h, body)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}
	if len(events.published) != 1 || events.published[0] != recordID {
		t.Errorf("published = %v, want [%v]", events.published, recordID)
	}
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	events := &fakeEvents{}
	h := newWebhookHandler(events)

	rec := postWebhook(h, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(events.published) != 0 {
		t.Errorf("nothing should be published, got %v", events.published)
	}
}

func TestWebhookRejectsMissingID(t *testing.T) {
	events := &fakeEvents{}
	h := newWebhookHandler(events)

	rec := postWebhook(h, `{"record":{}}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookRejectsNonUUID(t *testing.T) {
	events := &fakeEvents{}
	h := newWebhookHandler(events)

	rec := postWebhook(h, `{"question_id":"not-a-uuid"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookPublishFailureIs500(t *testing.T) {
	events := &fakeEvents{err: errors.New("broker down")}
	h := newWebhookHandler(events)

	rec := postWebhook(h, `{"question_id":"`+uuid.New().String()+`"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
