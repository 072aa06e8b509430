package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
	"github.com/Spok95/school-portal/internal/store"
)

// Directory — кто сейчас вошёл в каком чате: chatID → userID.
type Directory interface {
	Chats() map[int64]string
}

type notice struct {
	chatID int64
	text   string
}

// Notifier рассылает объявления, напоминания о просрочке и итоги перевода.
// Подписывается на коммиты хранилища; отправка идёт в отдельной горутине Run.
type Notifier struct {
	sender     Sender
	dir        Directory
	adminChats []int64
	log        *zap.Logger
	queue      chan notice
}

func New(sender Sender, dir Directory, adminChats []int64, log *zap.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		dir:        dir,
		adminChats: adminChats,
		log:        log,
		queue:      make(chan notice, 256),
	}
}

// Attach подписывает рассылку на изменения хранилища.
func (n *Notifier) Attach(s *store.Store) {
	s.OnCommit(n.onCommit)
}

func (n *Notifier) onCommit(_ context.Context, op string, prev, next *store.Snapshot) {
	switch op {
	case "announcements.post":
		if len(next.Announcements) == 0 || (len(prev.Announcements) > 0 && prev.Announcements[0].ID == next.Announcements[0].ID) {
			return
		}
		a := next.Announcements[0]
		for chatID, userID := range n.dir.Chats() {
			if u, ok := next.User(userID); ok && a.Audience.Reaches(u.Role) {
				n.enqueue(chatID, "📢 "+a.Content)
			}
		}
	case "fees.sweep_overdue":
		for _, f := range newlyOverdue(prev, next) {
			st, _ := next.Student(f.StudentRegNo)
			text := fmt.Sprintf("⚠️ Fee for %s (%s) is overdue: %d outstanding, due %s.",
				st.Name, f.StudentRegNo, f.Outstanding(), f.DueDate.Format(models.DateLayout))
			for chatID, userID := range n.dir.Chats() {
				u, ok := next.User(userID)
				if ok && u.StudentRegNo != nil && *u.StudentRegNo == f.StudentRegNo {
					n.enqueue(chatID, text)
				}
			}
		}
	case "setup.promote":
		y, _ := school.FindYear(next.AcademicYears, activeOrEmpty(prev))
		text := fmt.Sprintf("🎓 Promotion from %s completed. Activate the next academic year when ready.", y.Name)
		for _, id := range n.adminChats {
			n.enqueue(id, text)
		}
	}
}

func activeOrEmpty(s *store.Snapshot) string {
	y, _ := s.ActiveYear()
	return y.ID
}

func newlyOverdue(prev, next *store.Snapshot) []models.Fee {
	was := make(map[string]bool, len(prev.Fees))
	for _, f := range prev.Fees {
		was[f.ID] = f.Status == models.FeeOverdue
	}
	var out []models.Fee
	for _, f := range next.Fees {
		if f.Status == models.FeeOverdue && !was[f.ID] {
			out = append(out, f)
		}
	}
	return out
}

func (n *Notifier) enqueue(chatID int64, text string) {
	select {
	case n.queue <- notice{chatID: chatID, text: text}:
	default:
		n.log.Warn("notice queue full, dropping", zap.Int64("chat_id", chatID))
	}
}

// Run отправляет накопленные уведомления, пока не отменён ctx.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-n.queue:
			if err := n.sender.Send(ctx, m.chatID, m.text); err != nil {
				n.log.Warn("notice not delivered", zap.Int64("chat_id", m.chatID), zap.Error(err))
			}
		}
	}
}
