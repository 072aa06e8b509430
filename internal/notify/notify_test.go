package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/store"
)

type fakeSender struct {
	mu   sync.Mutex
	sent map[int64][]string
	got  chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: map[int64][]string{}, got: make(chan struct{}, 64)}
}

func (f *fakeSender) Send(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	f.sent[chatID] = append(f.sent[chatID], text)
	f.mu.Unlock()
	f.got <- struct{}{}
	return nil
}

func (f *fakeSender) SendDocument(context.Context, int64, string, []byte, string) error { return nil }

func (f *fakeSender) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.got:
		case <-time.After(2 * time.Second):
			t.Fatalf("дождались только %d уведомлений из %d", i, n)
		}
	}
}

type fakeDir map[int64]string

func (d fakeDir) Chats() map[int64]string { return d }

func setup(t *testing.T) (*store.Store, *fakeSender, context.CancelFunc) {
	t.Helper()
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	s := store.New(store.Options{Now: func() time.Time { return now }})
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	fs := newFakeSender()
	dir := fakeDir{100: store.SeedFacultyID, 200: "parent1", 300: "parent2", 400: store.SeedAccountsID}
	n := New(fs, dir, []int64{900}, zap.NewNop())
	n.Attach(s)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = n.Run(ctx) }()
	return s, fs, cancel
}

func TestAnnouncementReachesAudience(t *testing.T) {
	s, fs, cancel := setup(t)
	defer cancel()

	_, err := s.PostAnnouncement(context.Background(), store.AnnouncementInput{
		AuthorID: store.SeedAdminID, Content: "PTM on Saturday", Audience: "Parents",
	})
	if err != nil {
		t.Fatalf("PostAnnouncement: %v", err)
	}
	fs.wait(t, 2)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.sent[200]) != 1 || len(fs.sent[300]) != 1 {
		t.Fatalf("оба родителя должны получить объявление: %v", fs.sent)
	}
	if len(fs.sent[100]) != 0 || len(fs.sent[400]) != 0 {
		t.Fatalf("преподавателю и бухгалтерии объявление для родителей не шлём: %v", fs.sent)
	}
	if !strings.Contains(fs.sent[200][0], "PTM on Saturday") {
		t.Fatalf("текст: %q", fs.sent[200][0])
	}
}

func TestOverdueReminderGoesToParent(t *testing.T) {
	s, fs, cancel := setup(t)
	defer cancel()

	flipped, err := s.SweepOverdue(context.Background(), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || len(flipped) != 1 {
		t.Fatalf("SweepOverdue: %v %v", flipped, err)
	}
	fs.wait(t, 1)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.sent[300]) != 1 || !strings.Contains(fs.sent[300][0], "SCHL2025002") {
		t.Fatalf("напоминание родителю Боба: %v", fs.sent)
	}
	if len(fs.sent[200]) != 0 {
		t.Fatalf("у Алисы всё оплачено: %v", fs.sent[200])
	}
}

func TestPromotionNotifiesAdmins(t *testing.T) {
	s, fs, cancel := setup(t)
	defer cancel()

	if _, err := s.PromoteAll(context.Background()); err != nil {
		t.Fatalf("PromoteAll: %v", err)
	}
	fs.wait(t, 1)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.sent[900]) != 1 || !strings.Contains(fs.sent[900][0], "2025–26") {
		t.Fatalf("администратор: %v", fs.sent[900])
	}
}

func TestIsSystemErr(t *testing.T) {
	cases := map[string]bool{
		"Too Many Requests: retry after 5":     true,
		"Bad Request: chat not found":          false,
		"Post \"...\": net/http: timeout":      true,
		"Bad Request: message is not modified": false,
	}
	for msg, want := range cases {
		if got := isSystemErr(errors.New(msg)); got != want {
			t.Fatalf("%q: получили %v, ожидали %v", msg, got, want)
		}
	}
	if isSystemErr(nil) {
		t.Fatalf("nil не ошибка")
	}
}
