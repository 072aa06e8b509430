package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/bot/menu"
	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/export"
	"github.com/Spok95/school-portal/internal/logging"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
	"github.com/Spok95/school-portal/internal/store"
)

var (
	family    = []models.Role{models.Parent, models.StudentRole}
	teaching  = []models.Role{models.Faculty, models.Admin}
	admin     = []models.Role{models.Admin}
	money     = []models.Role{models.Accounts, models.Admin}
	library   = []models.Role{models.Librarian, models.Admin}
	everybody = models.AllRoles
)

var commands = map[string]command{
	menu.Attendance:    {family, (*Bot).attendance},
	menu.Marks:         {family, (*Bot).marks},
	menu.Rank:          {family, (*Bot).rank},
	menu.Fee:           {family, (*Bot).fee},
	menu.Receipt:       {family, (*Bot).receipt},
	menu.ReportCard:    {family, (*Bot).reportCard},
	menu.Announcements: {everybody, (*Bot).announcements},

	"/mark":     {teaching, (*Bot).markAttendance},
	"/addmark":  {teaching, (*Bot).addMark},
	"/report":   {teaching, (*Bot).fileReport},
	"/leave":    {[]models.Role{models.Faculty}, (*Bot).requestLeave},
	"/attsheet": {teaching, (*Bot).attendanceSheet},

	"/activate":      {admin, (*Bot).activate},
	menu.Promote:     {admin, (*Bot).promote},
	"/announce":      {admin, (*Bot).announce},
	"/block":         {admin, (*Bot).block},
	"/unblock":       {admin, (*Bot).unblock},
	menu.ClassReport: {teaching, (*Bot).classReport},
	"/resolve":       {admin, (*Bot).resolve},
	"/approve":       {admin, (*Bot).approveLeave},
	"/reject":        {admin, (*Bot).rejectLeave},

	menu.Fees:  {money, (*Bot).feeRegister},
	"/pay":     {money, (*Bot).pay},
	"/payfull": {money, (*Bot).payFull},

	menu.Books: {library, (*Bot).books},
	"/issue":   {library, (*Bot).issue},
	"/return":  {library, (*Bot).returnBook},
}

// --- родитель и ученик ---

func (b *Bot) attendance(_ context.Context, c call) Reply {
	st, _ := c.child()
	s := school.AttendanceStats(st.Attendance)
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Attendance of %s: %d%%\n", st.Name, s.Rate)
	fmt.Fprintf(&sb, "Present %d · Half day %d · Absent %d · On leave %d · Sessions %d\n", s.Present, s.HalfDay, s.Absent, s.OnLeave, s.Total)
	for _, m := range school.MonthlyAttendance(st.Attendance) {
		fmt.Fprintf(&sb, "%s: %d%% (%d sessions)\n", m.Month, m.Rate, m.Total)
	}
	return Reply{Text: sb.String()}
}

func (b *Bot) marks(_ context.Context, c call) Reply {
	st, _ := c.child()
	card := school.BuildReportCard(st, c.snap.Students, c.snap.ExamsFor(st.ClassID()))
	if len(card.Exams) == 0 {
		return text("📝 No marks recorded yet for %s.", st.Name)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 Marks of %s (%s)\n", st.Name, st.ClassID())
	for _, ex := range card.Exams {
		fmt.Fprintf(&sb, "\n%s: %d%% %s\n", ex.Exam.Name, ex.Percentage, ex.Grade)
		for _, s := range ex.Subjects {
			fmt.Fprintf(&sb, "  %s: %g/%g (%s)\n", s.Subject, s.Obtained, s.Max, s.Grade)
		}
	}
	fmt.Fprintf(&sb, "\nOverall: %d%% %s", card.Overall, card.OverallGrade)
	return Reply{Text: sb.String()}
}

func (b *Bot) rank(ctx context.Context, c call) Reply {
	st, _ := c.child()
	sum, err := c.snap.StudentSummary(st.RegisterNumber)
	if err != nil {
		return b.fail(ctx, err)
	}
	if sum.Rank < 0 {
		return text("🏆 %s is not ranked in a class.", sum.Name)
	}
	return text("🏆 %s: rank %d of %d in %s (overall %d%%, %s)", sum.Name, sum.Rank, sum.ClassSize, sum.ClassID, sum.Overall, sum.OverallGrade)
}

func (b *Bot) fee(_ context.Context, c call) Reply {
	st, _ := c.child()
	fees := c.snap.FeesOf(st.RegisterNumber)
	if len(fees) == 0 {
		return text("💰 No fee records for %s.", st.Name)
	}
	var sb strings.Builder
	for _, f := range fees {
		y, _ := school.FindYear(c.snap.AcademicYears, f.AcademicYearID)
		fmt.Fprintf(&sb, "💰 %s · %s\nTotal %s · Paid %s · Due %s\nStatus: %s (due by %s)\n",
			y.Name, f.ID, export.Rupees(f.TotalDue), export.Rupees(f.AmountPaid), export.Rupees(f.Outstanding()),
			f.Status, f.DueDate.Format(models.DateLayout))
		left := school.OutstandingByCategory(f)
		for _, cat := range models.FeeCategories {
			if v, ok := left[cat]; ok {
				fmt.Fprintf(&sb, "  %s: %s\n", cat, export.Rupees(v))
			}
		}
	}
	return Reply{Text: sb.String()}
}

func (b *Bot) receipt(ctx context.Context, c call) Reply {
	st, _ := c.child()
	fees := c.snap.FeesOf(st.RegisterNumber)
	if len(fees) == 0 {
		return text("💰 No fee records for %s.", st.Name)
	}
	f := fees[len(fees)-1]
	y, _ := school.FindYear(c.snap.AcademicYears, f.AcademicYearID)
	ctx, cancel := ctxutil.WithExportTimeout(ctx)
	defer cancel()

	var buf bytes.Buffer
	r := export.Receipt{
		Fee: f, Name: st.Name, ClassID: st.ClassID(), Year: y.Name,
		IssuedAt: b.now(), ReceiptNo: "R-" + f.ID,
	}
	if err := export.FeeReceiptPDF(r, &buf); err != nil {
		return b.fail(ctx, err)
	}
	return Reply{Doc: &Document{Name: export.ReceiptFilename(st.RegisterNumber, f.ID), Data: buf.Bytes(), Caption: "🧾 Fee receipt"}}
}

func (b *Bot) reportCard(ctx context.Context, c call) Reply {
	st, _ := c.child()
	card, err := c.snap.ReportCard(st.RegisterNumber)
	if err != nil {
		return b.fail(ctx, err)
	}
	var buf bytes.Buffer
	if err := export.ReportCardPDF(card, &buf); err != nil {
		return b.fail(ctx, err)
	}
	return Reply{Doc: &Document{Name: export.ReportCardFilename(st.RegisterNumber, st.Name), Data: buf.Bytes(), Caption: "📘 Report card"}}
}

func (b *Bot) announcements(_ context.Context, c call) Reply {
	list := c.snap.AnnouncementsFor(c.user.Role)
	if len(list) == 0 {
		return text("📢 No announcements.")
	}
	if len(list) > 5 {
		list = list[:5]
	}
	var sb strings.Builder
	for _, a := range list {
		fmt.Fprintf(&sb, "📢 %s [%s]\n%s\n\n", a.Date.In(b.loc).Format("02 Jan 2006"), a.Audience, a.Content)
	}
	return Reply{Text: strings.TrimSpace(sb.String())}
}

// --- преподаватель ---

// canTeach: преподаватель работает только со своими учениками, администратор — со всеми.
func canTeach(u models.User, regNo string) bool {
	return u.Role == models.Admin || u.IsAssigned(regNo)
}

func (b *Bot) markAttendance(ctx context.Context, c call) Reply {
	regNo, in, err := parseAttendance(c.args)
	if err != nil {
		return text("⚠️ %s", err)
	}
	if !canTeach(c.user, regNo) {
		return text("⚠️ Student %s is not assigned to you.", regNo)
	}
	if err := b.store.MarkAttendance(ctx, regNo, in); err != nil {
		return b.fail(ctx, err)
	}
	return text("✅ %s: %s %s marked %s", regNo, in.Date.Format(models.DateLayout), in.Session, in.Type)
}

func (b *Bot) addMark(ctx context.Context, c call) Reply {
	m, err := parseMark(c.args)
	if err != nil {
		return text("⚠️ %s", err)
	}
	if !canTeach(c.user, m.RegNo) {
		return text("⚠️ Student %s is not assigned to you.", m.RegNo)
	}
	st, ok := c.snap.Student(m.RegNo)
	if !ok {
		return text("⚠️ student %q not found", m.RegNo)
	}
	exam, ok := resolveExam(c.snap, st.ClassID(), m.ExamRef)
	if !ok {
		return text("⚠️ exam %q not found", m.ExamRef)
	}
	e, err := b.store.RecordMark(ctx, m.RegNo, store.MarkInput{ExamID: exam.ID, Subject: m.Subject, MarksObtained: m.Obt, MaxMarks: m.Max})
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("✅ %s · %s · %s: %g/%g (%s)", m.RegNo, exam.Name, e.Subject, e.MarksObtained, e.MaxMarks, *e.Grade)
}

func (b *Bot) fileReport(ctx context.Context, c call) Reply {
	if len(c.args) < 2 {
		return text("usage: /report <regno> <description>")
	}
	regNo := strings.ToUpper(c.args[0])
	r, err := b.store.FileDisciplinaryReport(ctx, store.ReportInput{
		StudentRegNo: regNo, FacultyID: c.user.ID, Description: strings.Join(c.args[1:], " "),
	})
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("📝 Report %s filed for %s.", r.ID, regNo)
}

func (b *Bot) requestLeave(ctx context.Context, c call) Reply {
	if len(c.args) < 3 {
		return text("usage: /leave <YYYY-MM-DD> <YYYY-MM-DD> <reason>")
	}
	from, err := models.ParseDate(c.args[0])
	if err != nil {
		return text("⚠️ %s", err)
	}
	to, err := models.ParseDate(c.args[1])
	if err != nil {
		return text("⚠️ %s", err)
	}
	l, err := b.store.RequestLeave(ctx, store.LeaveInput{FacultyID: c.user.ID, DateStart: from, DateEnd: to, Reason: strings.Join(c.args[2:], " ")})
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("🗓 Leave request %s submitted.", l.ID)
}

func (b *Bot) attendanceSheet(ctx context.Context, c call) Reply {
	if len(c.args) != 1 {
		return text("usage: /attsheet <classID>")
	}
	classID := strings.ToUpper(c.args[0])
	var rows []export.AttendanceRow
	for _, st := range c.snap.ClassStudents(classID) {
		rows = append(rows, export.AttendanceRow{RegNo: st.RegisterNumber, Name: st.Name, Summary: school.AttendanceStats(st.Attendance)})
	}
	if len(rows) == 0 {
		return text("⚠️ No students in %s.", classID)
	}
	wb, err := export.AttendanceWorkbook(classID, rows)
	if err != nil {
		return b.fail(ctx, err)
	}
	return b.workbook(ctx, wb, export.AttendanceFilename(classID, b.now()), "📅 Attendance "+classID)
}

func (b *Bot) classReport(ctx context.Context, c call) Reply {
	if len(c.args) != 1 {
		return text("usage: /classreport <classID>")
	}
	classID := strings.ToUpper(c.args[0])
	standings := c.snap.ClassRanking(classID)
	if len(standings) == 0 {
		return text("⚠️ No students in %s.", classID)
	}
	rows := make([]export.ClassReportRow, 0, len(standings))
	for i, s := range standings {
		st, _ := c.snap.Student(s.RegisterNumber)
		rows = append(rows, export.ClassReportRow{
			Rank: i + 1, RegNo: s.RegisterNumber, Name: s.Name,
			Overall: s.Percentage, Grade: school.GradeLetter(s.Percentage),
			Attendance: school.AttendanceStats(st.Attendance).Rate,
		})
	}
	exams := c.snap.ExamsFor(classID)
	wb, err := export.ClassReportWorkbook(classID, rows, school.ClassAverages(c.snap.Students, classID, exams))
	if err != nil {
		return b.fail(ctx, err)
	}
	y, _ := c.snap.ActiveYear()
	return b.workbook(ctx, wb, export.ClassReportFilename(classID, y.Name), "📊 Class report "+classID)
}

func (b *Bot) workbook(ctx context.Context, wb *export.Workbook, name, caption string) Reply {
	defer func() { _ = wb.Close() }()
	data, err := wb.Bytes()
	if err != nil {
		return b.fail(ctx, err)
	}
	if b.archive != "" {
		if _, err := wb.Save(b.archive, name); err != nil {
			logging.For(ctx, b.log).Warn("archive export", zap.String("name", name), zap.Error(err))
		}
	}
	return Reply{Doc: &Document{Name: name, Data: data, Caption: caption}}
}

// --- администратор ---

func (b *Bot) activate(ctx context.Context, c call) Reply {
	if len(c.args) != 1 {
		return text("usage: /activate <yearID|name>")
	}
	id := c.args[0]
	for _, y := range c.snap.AcademicYears {
		if y.Name == id {
			id = y.ID
		}
	}
	if err := b.store.ActivateAcademicYear(ctx, id); err != nil {
		return b.fail(ctx, err)
	}
	return text("✅ Academic year %s is active.", c.args[0])
}

func (b *Bot) promote(ctx context.Context, _ call) Reply {
	res, err := b.store.PromoteAll(ctx)
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("🎓 Promotion done: %d promoted, %d graduated.", res.Promoted, res.Graduated)
}

func (b *Bot) announce(ctx context.Context, c call) Reply {
	aud, body := parseAnnouncement(c.args)
	a, err := b.store.PostAnnouncement(ctx, store.AnnouncementInput{AuthorID: c.user.ID, Content: body, Audience: aud})
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("📢 Announcement posted for %s.", a.Audience)
}

func (b *Bot) block(ctx context.Context, c call) Reply   { return b.setBlocked(ctx, c, true) }
func (b *Bot) unblock(ctx context.Context, c call) Reply { return b.setBlocked(ctx, c, false) }

func (b *Bot) setBlocked(ctx context.Context, c call, blocked bool) Reply {
	if len(c.args) != 1 {
		return text("usage: /block|/unblock <regno>")
	}
	regNo := strings.ToUpper(c.args[0])
	if err := b.store.SetPortalBlocked(ctx, regNo, blocked); err != nil {
		return b.fail(ctx, err)
	}
	if blocked {
		return text("🚫 Portal blocked for %s.", regNo)
	}
	return text("✅ Portal unblocked for %s.", regNo)
}

func (b *Bot) resolve(ctx context.Context, c call) Reply {
	if len(c.args) != 2 {
		return text("usage: /resolve <reportID> <ignore|block>")
	}
	if err := b.store.ResolveReport(ctx, c.args[0], store.ReportAction(strings.ToLower(c.args[1]))); err != nil {
		return b.fail(ctx, err)
	}
	return text("✅ Report %s resolved.", c.args[0])
}

func (b *Bot) approveLeave(ctx context.Context, c call) Reply {
	return b.decideLeave(ctx, c, models.LeaveApproved)
}

func (b *Bot) rejectLeave(ctx context.Context, c call) Reply {
	return b.decideLeave(ctx, c, models.LeaveRejected)
}

func (b *Bot) decideLeave(ctx context.Context, c call, status models.LeaveStatus) Reply {
	if len(c.args) != 1 {
		return text("usage: /approve|/reject <leaveID>")
	}
	if err := b.store.SetLeaveStatus(ctx, c.args[0], status); err != nil {
		return b.fail(ctx, err)
	}
	return text("✅ Leave %s %s.", c.args[0], strings.ToLower(string(status)))
}

// --- бухгалтерия ---

func (b *Bot) feeRegister(ctx context.Context, c call) Reply {
	ctx, cancel := ctxutil.WithExportTimeout(ctx)
	defer cancel()
	reg := c.snap.FeeRegister()
	rows := make([]export.FeeRow, 0, len(reg))
	for _, r := range reg {
		rows = append(rows, export.FeeRow{
			FeeID: r.Fee.ID, RegNo: r.Fee.StudentRegNo, Name: r.Name, ClassID: r.ClassID, Year: r.Year,
			TotalDue: r.Fee.TotalDue, Paid: r.Fee.AmountPaid, Status: r.Fee.Status,
			DueDate: r.Fee.DueDate, LastPayment: r.Fee.LastPaymentDate,
		})
	}
	wb, err := export.FeeRegisterWorkbook(rows)
	if err != nil {
		return b.fail(ctx, err)
	}
	sum := school.FeeTotals(c.snap.Fees)
	caption := fmt.Sprintf("💰 Collected %s of %s, outstanding %s", export.Rupees(sum.Collected), export.Rupees(sum.TotalDue), export.Rupees(sum.Outstanding))
	return b.workbook(ctx, wb, export.FeeRegisterFilename(b.now()), caption)
}

func (b *Bot) pay(ctx context.Context, c call) Reply {
	in, err := parsePayment(c.args)
	if err != nil {
		return text("⚠️ %s", err)
	}
	f, err := b.store.RecordPayment(ctx, in)
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("✅ %s paid to %s. Status: %s, outstanding %s.", export.Rupees(in.Amount), f.ID, f.Status, export.Rupees(f.Outstanding()))
}

func (b *Bot) payFull(ctx context.Context, c call) Reply {
	if len(c.args) != 1 {
		return text("usage: /payfull <feeID>")
	}
	f, err := b.store.PayInFull(ctx, c.args[0])
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("✅ %s fully paid (%s).", f.ID, export.Rupees(f.AmountPaid))
}

// --- библиотека ---

func (b *Bot) books(_ context.Context, c call) Reply {
	if len(c.snap.Books) == 0 {
		return text("📚 The catalogue is empty.")
	}
	var sb strings.Builder
	for _, bk := range c.snap.Books {
		fmt.Fprintf(&sb, "📚 %s · %s — %s (%d/%d available)\n", bk.ID, bk.Title, bk.Author, bk.AvailableCopies, bk.TotalCopies)
	}
	return Reply{Text: sb.String()}
}

func (b *Bot) issue(ctx context.Context, c call) Reply {
	if len(c.args) != 2 {
		return text("usage: /issue <bookID> <userID>")
	}
	is, err := b.store.IssueBook(ctx, c.args[0], c.args[1], time.Time{})
	if err != nil {
		return b.fail(ctx, err)
	}
	return text("📕 Issued as %s, due %s.", is.ID, is.DueAt.Format(models.DateLayout))
}

func (b *Bot) returnBook(ctx context.Context, c call) Reply {
	if len(c.args) != 1 {
		return text("usage: /return <issueID>")
	}
	if err := b.store.ReturnBook(ctx, c.args[0]); err != nil {
		return b.fail(ctx, err)
	}
	return text("📗 Returned.")
}
