package menu

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-portal/internal/models"
)

// Кнопки меню совпадают с командами, чтобы нажатие и ввод обрабатывались одинаково.
const (
	Attendance    = "/attendance"
	Marks         = "/marks"
	Rank          = "/rank"
	Fee           = "/fee"
	Receipt       = "/receipt"
	ReportCard    = "/reportcard"
	Announcements = "/announcements"
	Promote       = "/promote"
	ClassReport   = "/classreport"
	Fees          = "/fees"
	Books         = "/books"
	Logout        = "/logout"
)

// GetRoleMenu возвращает меню в зависимости от роли пользователя
func GetRoleMenu(role models.Role, blocked bool) tgbotapi.ReplyKeyboardMarkup {
	if blocked {
		return blockedMenu()
	}
	switch role {
	case models.Parent, models.StudentRole:
		return familyMenu()
	case models.Faculty:
		return facultyMenu()
	case models.Admin:
		return adminMenu()
	case models.Accounts:
		return accountsMenu()
	case models.Librarian:
		return librarianMenu()
	default:
		return tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(Logout)))
	}
}

func familyMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Attendance),
			tgbotapi.NewKeyboardButton(Marks),
			tgbotapi.NewKeyboardButton(Rank),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Fee),
			tgbotapi.NewKeyboardButton(Receipt),
			tgbotapi.NewKeyboardButton(ReportCard),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Announcements),
			tgbotapi.NewKeyboardButton(Logout),
		),
	)
}

func blockedMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Fee),
			tgbotapi.NewKeyboardButton(Receipt),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(Logout)),
	)
}

func facultyMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Announcements),
			tgbotapi.NewKeyboardButton(Logout),
		),
	)
}

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Promote),
			tgbotapi.NewKeyboardButton(Fees),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Announcements),
			tgbotapi.NewKeyboardButton(Logout),
		),
	)
}

func accountsMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Fees),
			tgbotapi.NewKeyboardButton(Logout),
		),
	)
}

func librarianMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(Books),
			tgbotapi.NewKeyboardButton(Logout),
		),
	)
}
