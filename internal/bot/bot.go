package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/bot/menu"
	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/logging"
	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/notify"
	"github.com/Spok95/school-portal/internal/observability"
	"github.com/Spok95/school-portal/internal/store"
)

type Document struct {
	Name    string
	Data    []byte
	Caption string
}

// Reply — ответ на одно сообщение пользователя.
type Reply struct {
	Text       string
	Doc        *Document
	Menu       *tgbotapi.ReplyKeyboardMarkup
	RemoveMenu bool
}

func text(format string, args ...any) Reply { return Reply{Text: fmt.Sprintf(format, args...)} }

type Bot struct {
	api      *tgbotapi.BotAPI
	store    *store.Store
	sessions *Sessions
	limiter  *ChatLimiter
	log      *zap.Logger
	loc      *time.Location
	clock    func() time.Time
	archive  string
}

func New(api *tgbotapi.BotAPI, st *store.Store, sessions *Sessions, log *zap.Logger, loc *time.Location) *Bot {
	if loc == nil {
		loc = time.UTC
	}
	return &Bot{api: api, store: st, sessions: sessions, limiter: NewChatLimiter(), log: log, loc: loc, clock: time.Now}
}

// ArchiveTo включает сохранение копий выгрузок Excel в каталог dir.
func (b *Bot) ArchiveTo(dir string) { b.archive = dir }

func (b *Bot) now() time.Time { return b.clock().In(b.loc) }

// Run читает обновления до отмены ctx. Команды одного чата выполняются по очереди.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if upd.Message == nil {
				continue
			}
			metrics.BotUpdates.Inc()
			chatID, msg := upd.Message.Chat.ID, upd.Message.Text
			go b.serve(ctx, chatID, msg)
		}
	}
}

func (b *Bot) serve(ctx context.Context, chatID int64, msg string) {
	unlock := b.limiter.lock(chatID)
	defer unlock()
	b.deliver(ctx, chatID, b.Handle(ctx, chatID, msg))
}

func (b *Bot) deliver(ctx context.Context, chatID int64, r Reply) {
	tg := notify.Telegram{Bot: b.api}
	if r.Doc != nil {
		if err := tg.SendDocument(ctx, chatID, r.Doc.Name, r.Doc.Data, r.Doc.Caption); err != nil {
			metrics.HandlerErrors.Inc()
			b.log.Warn("send document", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
	if r.Text == "" {
		return
	}
	m := tgbotapi.NewMessage(chatID, r.Text)
	switch {
	case r.Menu != nil:
		m.ReplyMarkup = *r.Menu
	case r.RemoveMenu:
		m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}
	if _, err := tg.Deliver(ctx, m); err != nil {
		metrics.HandlerErrors.Inc()
		b.log.Warn("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// call — контекст одной команды вошедшего пользователя.
type call struct {
	chatID int64
	user   models.User
	args   []string
	snap   *store.Snapshot
}

type command struct {
	roles []models.Role
	run   func(b *Bot, ctx context.Context, c call) Reply
}

func (cmd command) allows(r models.Role) bool {
	for _, x := range cmd.roles {
		if x == r {
			return true
		}
	}
	return false
}

// Handle разбирает одно сообщение и возвращает ответ. Отправка — в deliver.
func (b *Bot) Handle(ctx context.Context, chatID int64, msg string) Reply {
	name, args := parseCommand(msg)
	switch name {
	case "":
		return text("⚠️ Unknown command. Use /start")
	case "/start":
		return b.start(chatID)
	case "/login":
		return b.login(ctx, chatID, args)
	}

	userID, ok := b.sessions.User(chatID)
	if !ok {
		return text("🔐 Please log in: /login <username> <password>")
	}
	snap := b.store.Snapshot()
	u, ok := snap.User(userID)
	if !ok {
		b.sessions.Logout(chatID)
		return text("🔐 Session expired. Please log in again.")
	}
	ctx = ctxutil.WithActor(ctx, u.ID, string(u.Role))
	c := call{chatID: chatID, user: u, args: args, snap: snap}

	switch name {
	case "/logout":
		b.sessions.Logout(chatID)
		return Reply{Text: "👋 Logged out.", RemoveMenu: true}
	case "/passwd":
		return b.passwd(ctx, c)
	}
	if u.IsFirstLogin {
		return text("🔑 Please change your password first: /passwd <new> <confirm>")
	}

	cmd, ok := commands[name]
	if !ok || !cmd.allows(u.Role) {
		return text("⚠️ Command %s is not available for %s.", name, u.Role)
	}
	if st, linked := c.child(); linked && st.IsPortalBlocked && !blockedAllowed[name] {
		return text("🚫 Portal access is blocked. Only /fee and /receipt are available. Please contact the school office.")
	}
	ctx = ctxutil.WithOp(ctx, "bot"+name)
	return cmd.run(b, ctx, c)
}

// Заблокированному ученику и его родителю остаются только оплата и квитанция.
var blockedAllowed = map[string]bool{menu.Fee: true, menu.Receipt: true, menu.Logout: true}

func (c call) child() (models.Student, bool) {
	if c.user.StudentRegNo == nil {
		return models.Student{}, false
	}
	return c.snap.Student(*c.user.StudentRegNo)
}

func (b *Bot) start(chatID int64) Reply {
	userID, ok := b.sessions.User(chatID)
	if !ok {
		return Reply{Text: "👋 Welcome to the school portal.\nLog in with /login <username> <password>", RemoveMenu: true}
	}
	snap := b.store.Snapshot()
	u, ok := snap.User(userID)
	if !ok {
		b.sessions.Logout(chatID)
		return text("🔐 Session expired. Please log in again.")
	}
	return b.welcome(snap, u)
}

func (b *Bot) welcome(snap *store.Snapshot, u models.User) Reply {
	blocked := false
	if u.StudentRegNo != nil {
		st, _ := snap.Student(*u.StudentRegNo)
		blocked = st.IsPortalBlocked
	}
	kb := menu.GetRoleMenu(u.Role, blocked)
	return Reply{Text: fmt.Sprintf("Welcome, %s (%s)! Choose an action:", u.Username, u.Role), Menu: &kb}
}

func (b *Bot) login(ctx context.Context, chatID int64, args []string) Reply {
	if len(args) != 2 {
		return text("usage: /login <username> <password>")
	}
	u, err := b.store.Login(args[0], args[1])
	if err != nil {
		return text("❌ Invalid username or password.")
	}
	b.sessions.Login(chatID, u.ID)
	logging.For(ctxutil.WithActor(ctx, u.ID, string(u.Role)), b.log).Info("login", zap.Int64("chat_id", chatID))
	if u.IsFirstLogin {
		return Reply{Text: "🔑 Password change required. Send /passwd <new> <confirm> (at least 6 characters).", RemoveMenu: true}
	}
	return b.welcome(b.store.Snapshot(), u)
}

func (b *Bot) passwd(ctx context.Context, c call) Reply {
	if len(c.args) != 2 {
		return text("usage: /passwd <new> <confirm>")
	}
	if err := b.store.ChangePassword(ctx, c.user.ID, c.args[0], c.args[1]); err != nil {
		return b.fail(ctx, err)
	}
	snap := b.store.Snapshot()
	u, _ := snap.User(c.user.ID)
	r := b.welcome(snap, u)
	r.Text = "✅ Password changed.\n" + r.Text
	return r
}

// fail переводит ошибку в ответ. Ошибки предметной области показываем как есть,
// остальные логируем и отправляем в Sentry.
func (b *Bot) fail(ctx context.Context, err error) Reply {
	if store.IsDomain(err) {
		return text("⚠️ %s", err.Error())
	}
	metrics.HandlerErrors.Inc()
	logging.For(ctx, b.log).Error("command failed", zap.Error(err))
	observability.CaptureCtx(ctx, err)
	return text("⚠️ Something went wrong. Please try again later.")
}
