package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/store"
)

// parseCommand: "/mark@school_bot A B" → "/mark", [A B].
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return cmd, fields[1:]
}

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

// /mark <regno> <YYYY-MM-DD> <morning|afternoon> <Present|Absent|HalfDay|OnLeave> [reason]
func parseAttendance(args []string) (string, store.AttendanceInput, error) {
	const usage = usageError("/mark <regno> <YYYY-MM-DD> <morning|afternoon> <Present|Absent|HalfDay|OnLeave> [reason]")
	if len(args) < 4 {
		return "", store.AttendanceInput{}, usage
	}
	d, err := models.ParseDate(args[1])
	if err != nil {
		return "", store.AttendanceInput{}, err
	}
	typ, ok := attendanceTypes[strings.ToLower(args[3])]
	if !ok {
		return "", store.AttendanceInput{}, usage
	}
	in := store.AttendanceInput{
		Date:    d,
		Session: models.Session(strings.ToLower(args[2])),
		Type:    typ,
	}
	if len(args) > 4 {
		r := strings.Join(args[4:], " ")
		in.Reason = &r
	}
	return strings.ToUpper(args[0]), in, nil
}

var attendanceTypes = map[string]models.AttendanceType{
	"present": models.Present,
	"p":       models.Present,
	"absent":  models.Absent,
	"a":       models.Absent,
	"halfday": models.HalfDay,
	"half":    models.HalfDay,
	"h":       models.HalfDay,
	"onleave": models.OnLeave,
	"leave":   models.OnLeave,
	"l":       models.OnLeave,
}

type markArgs struct {
	RegNo   string
	ExamRef string
	Subject string
	Obt     float64
	Max     float64
}

// /addmark <regno> <exam> <subject> <obtained> <max>
func parseMark(args []string) (markArgs, error) {
	const usage = usageError("/addmark <regno> <exam> <subject> <obtained> <max>")
	if len(args) != 5 {
		return markArgs{}, usage
	}
	obt, err1 := strconv.ParseFloat(args[3], 64)
	maxMarks, err2 := strconv.ParseFloat(args[4], 64)
	if err1 != nil || err2 != nil {
		return markArgs{}, fmt.Errorf("marks must be numbers: %q of %q", args[3], args[4])
	}
	return markArgs{RegNo: strings.ToUpper(args[0]), ExamRef: args[1], Subject: args[2], Obt: obt, Max: maxMarks}, nil
}

// /pay <feeID> <category> <amount>
func parsePayment(args []string) (store.PaymentInput, error) {
	const usage = usageError("/pay <feeID> <tuition|exam|lab|library|transport|misc> <amount>")
	if len(args) != 3 {
		return store.PaymentInput{}, usage
	}
	cat, err := models.ParseFeeCategory(args[1])
	if err != nil {
		return store.PaymentInput{}, err
	}
	amount, err := strconv.ParseInt(strings.ReplaceAll(args[2], ",", ""), 10, 64)
	if err != nil {
		return store.PaymentInput{}, fmt.Errorf("bad amount %q", args[2])
	}
	return store.PaymentInput{FeeID: args[0], Category: cat, Amount: amount}, nil
}

// /announce [@All|@Faculty|@Parents|@Students] <text>
func parseAnnouncement(args []string) (models.Audience, string) {
	aud := models.AudienceAll
	if len(args) > 0 && strings.HasPrefix(args[0], "@") {
		switch strings.ToLower(args[0][1:]) {
		case "faculty":
			aud = models.AudienceFaculty
		case "parents":
			aud = models.AudienceParents
		case "students":
			aud = models.AudienceStudents
		}
		args = args[1:]
	}
	return aud, strings.Join(args, " ")
}

// resolveExam ищет экзамен по id, а затем по типу среди экзаменов класса.
func resolveExam(snap *store.Snapshot, classID, ref string) (models.Exam, bool) {
	if e, ok := snap.Exam(ref); ok {
		return e, true
	}
	typ, err := models.ParseExamType(ref)
	if err != nil {
		return models.Exam{}, false
	}
	for _, e := range snap.ExamsFor(classID) {
		if e.Type == typ {
			return e, true
		}
	}
	return models.Exam{}, false
}
