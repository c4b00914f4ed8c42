package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/numinary/internal/problemgen"
)

// Callback data.
const (
	cbHint    = "hint"
	cbExplain = "explain"
	cbSkip    = "skip"

	cbLessonPrefix = "lesson:"
	cbTopicPrefix  = "topic:"
)

func problemKeyboard(withTutor bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardButtonData("Skip", cbSkip)}
	if withTutor {
		row = append([]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Hint", cbHint),
			tgbotapi.NewInlineKeyboardButtonData("Explain", cbExplain),
		}, row...)
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}

func lessonKeyboard(lessons []*problemgen.Problem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(lessons))
	for i, p := range lessons {
		label := fmt.Sprintf("%d. %s", i+1, strings.TrimPrefix(p.Question, "Solve: "))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbLessonPrefix+p.ID)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func topicKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range problemgen.Filters() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(t.Title(), cbTopicPrefix+string(t)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}
