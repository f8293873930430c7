package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stockpilot/notifier-service/internal/app"
	"github.com/stockpilot/notifier-service/internal/domain"
)

type apiRepoStub struct {
	notifications []domain.Notification
	inserted      []domain.Notification
}

func (s *apiRepoStub) ListNotifications(ctx context.Context, userID string, opts domain.NotificationListOptions) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if opts.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *apiRepoStub) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *apiRepoStub) MarkNotificationRead(ctx context.Context, userID, notificationID string) (bool, error) {
	for i := range s.notifications {
		if s.notifications[i].ID == notificationID && s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (s *apiRepoStub) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	var updated int64
	for i := range s.notifications {
		if s.notifications[i].UserID == userID && !s.notifications[i].Read {
			s.notifications[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (s *apiRepoStub) InsertNotification(ctx context.Context, n *domain.Notification) error {
	s.inserted = append(s.inserted, *n)
	return nil
}

type sweepStub struct {
	calls int
	count int
}

func (s *sweepStub) SweepReminders(ctx context.Context, now time.Time) (int, error) {
	s.calls++
	return s.count, nil
}

const (
	testJWTSecret   = "test-jwt-secret"
	testInternalKey = "test-internal-key"
)

func newTestRouter(t *testing.T, repo *apiRepoStub, sweeper app.ReminderSweeper) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inbox := app.NewInboxService(repo, logger)
	alerts := app.NewAlertService(repo, logger)
	handler := NewHandler(inbox, alerts, sweeper, logger)
	return NewRouter(handler, testJWTSecret, testInternalKey)
}

func bearerTokenFor(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + signed
}

func TestListNotifications_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, &apiRepoStub{}, &sweepStub{})

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestListNotifications_ReturnsUserInbox(t *testing.T) {
	repo := &apiRepoStub{notifications: []domain.Notification{
		{ID: "n1", UserID: "user-1", Type: domain.NotificationTypeSubscription, Title: "Subscription expiring soon"},
		{ID: "n2", UserID: "user-1", Type: domain.NotificationTypeInventory, Title: "Low stock alert", Read: true},
		{ID: "n3", UserID: "user-2", Type: domain.NotificationTypePayment, Title: "Payment due"},
	}}
	router := newTestRouter(t, repo, &sweepStub{})

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("Authorization", bearerTokenFor(t, "user-1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got []domain.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications for user-1, got %d", len(got))
	}

	req = httptest.NewRequest(http.MethodGet, "/notifications?status=unread", nil)
	req.Header.Set("Authorization", bearerTokenFor(t, "user-1"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "n1" {
		t.Fatalf("expected only the unread notification, got %+v", got)
	}
}

func TestUnreadCount(t *testing.T) {
	repo := &apiRepoStub{notifications: []domain.Notification{
		{ID: "n1", UserID: "user-1"},
		{ID: "n2", UserID: "user-1", Read: true},
	}}
	router := newTestRouter(t, repo, &sweepStub{})

	req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	req.Header.Set("Authorization", bearerTokenFor(t, "user-1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got["unread"] != 1 {
		t.Fatalf("expected unread count 1, got %d", got["unread"])
	}
}

func TestMarkRead_UnknownNotificationReturns404(t *testing.T) {
	router := newTestRouter(t, &apiRepoStub{}, &sweepStub{})

	req := httptest.NewRequest(http.MethodPost, "/notifications/7e0b6c9e-9787-4f9f-9f53-36a2a0c4a1e6/read", nil)
	req.Header.Set("Authorization", bearerTokenFor(t, "user-1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown notification, got %d", rec.Code)
	}
}

func TestInternalRoutes_RejectMissingAPIKey(t *testing.T) {
	router := newTestRouter(t, &apiRepoStub{}, &sweepStub{})

	req := httptest.NewRequest(http.MethodPost, "/internal/sweeps/reminders", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without internal key, got %d", rec.Code)
	}
}

func TestRunReminderSweepEndpoint(t *testing.T) {
	sweeper := &sweepStub{count: 2}
	router := newTestRouter(t, &apiRepoStub{}, sweeper)

	req := httptest.NewRequest(http.MethodPost, "/internal/sweeps/reminders", strings.NewReader("{}"))
	req.Header.Set("X-Internal-API-Key", testInternalKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected 1 sweep invocation, got %d", sweeper.calls)
	}
	var got map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got["sent"] != 2 {
		t.Fatalf("expected sent count 2, got %d", got["sent"])
	}
}

func TestLowStockAlert_CreatesInventoryNotification(t *testing.T) {
	repo := &apiRepoStub{}
	router := newTestRouter(t, repo, &sweepStub{})

	body := `{"user_id":"user-1","item_name":"Espresso Beans 1kg","current_quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/internal/alerts/low-stock", strings.NewReader(body))
	req.Header.Set("X-Internal-API-Key", testInternalKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 inserted notification, got %d", len(repo.inserted))
	}
	inserted := repo.inserted[0]
	if inserted.Type != domain.NotificationTypeInventory {
		t.Fatalf("expected inventory notification, got %q", inserted.Type)
	}
	if inserted.Metadata.Inventory == nil || inserted.Metadata.Inventory.CurrentQuantity != 3 {
		t.Fatal("expected inventory metadata with the reported quantity")
	}
}

func TestPaymentDueAlert_ValidatesPayload(t *testing.T) {
	repo := &apiRepoStub{}
	router := newTestRouter(t, repo, &sweepStub{})

	body := `{"user_id":"user-1","amount_due":0}`
	req := httptest.NewRequest(http.MethodPost, "/internal/alerts/payment-due", strings.NewReader(body))
	req.Header.Set("X-Internal-API-Key", testInternalKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-positive amount, got %d", rec.Code)
	}
	if len(repo.inserted) != 0 {
		t.Fatal("expected no notification for invalid payload")
	}
}
