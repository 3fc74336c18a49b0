package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/fsm"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/texts"
)

// startEditFlow показывает список подписок для выбора записи.
func (r *Router) startEditFlow(ctx context.Context, chatID int64, user *models.User) {
	subs, err := r.subs.List(ctx, user.UserID, false)
	if err != nil {
		r.failure(chatID, user, "telegram.startEditFlow", err)
		return
	}
	if len(subs) == 0 {
		r.replyMarkup(chatID, texts.Get(user.Language, "list.empty"),
			backToMenuKeyboard(user.Language))
		return
	}

	r.forms.Start(chatID, fsm.FlowEdit, fsm.StepSelectingRecord)
	r.replyMarkup(chatID, texts.Get(user.Language, "edit.select_record"),
		subscriptionsKeyboard(subs))
}

// handleEditRecordSelected фиксирует выбранную запись и спрашивает поле.
func (r *Router) handleEditRecordSelected(ctx context.Context, chatID int64, user *models.User, form *fsm.Form, data string) {
	id, err := parseSubscriptionCallback(data)
	if err != nil {
		r.reply(chatID, texts.Get(user.Language, "error.generic"))
		return
	}
	// Подписка перечитывается, чтобы отсеять чужие и удалённые ID
	if _, err := r.subs.Read(ctx, id, user.UserID); err != nil {
		r.forms.Delete(chatID)
		r.failure(chatID, user, "telegram.handleEditRecordSelected", err)
		return
	}

	form.SubscriptionID = id
	form.Step = fsm.StepSelectingField
	r.replyMarkup(chatID, texts.Get(user.Language, "edit.select_field"),
		cancelReplyKeyboard(user.Language))
}

// handleEditMessage обрабатывает номер поля и новое значение.
func (r *Router) handleEditMessage(ctx context.Context, chatID int64, user *models.User, form *fsm.Form, text string) {
	lang := user.Language

	switch form.Step {
	case fsm.StepSelectingRecord:
		r.reply(chatID, texts.Get(lang, "edit.select_record"))

	case fsm.StepSelectingField:
		field, err := fsm.FieldByNumber(text)
		if err != nil {
			r.replyValidation(chatID, lang, err)
			return
		}
		form.Field = field
		form.Step = fsm.StepEnteringNewValue
		if field.Category {
			r.showCategoryStep(ctx, chatID, user)
			return
		}
		r.reply(chatID, texts.Get(lang, "edit.enter_value"))

	case fsm.StepEnteringNewValue:
		value, err := form.Field.Parse(text, lang)
		if err != nil {
			r.replyValidation(chatID, lang, err)
			return
		}
		if err := r.subs.UpdateField(ctx, user, form.SubscriptionID,
			form.Field.Column, value); err != nil {
			r.forms.Delete(chatID)
			r.failure(chatID, user, "telegram.handleEditMessage", err)
			return
		}
		r.forms.Delete(chatID)
		r.replyRemoveKeyboard(chatID, texts.Get(lang, "edit.done"))
		r.showMenu(chatID, user)
	}
}

// startDeleteFlow показывает список подписок для удаления.
func (r *Router) startDeleteFlow(ctx context.Context, chatID int64, user *models.User) {
	subs, err := r.subs.List(ctx, user.UserID, false)
	if err != nil {
		r.failure(chatID, user, "telegram.startDeleteFlow", err)
		return
	}
	if len(subs) == 0 {
		r.replyMarkup(chatID, texts.Get(user.Language, "list.empty"),
			backToMenuKeyboard(user.Language))
		return
	}

	r.forms.Start(chatID, fsm.FlowDelete, fsm.StepSelectingRecord)
	r.replyMarkup(chatID, texts.Get(user.Language, "delete.select"),
		subscriptionsKeyboard(subs))
}

// handleDeleteRecordSelected удаляет выбранную подписку.
func (r *Router) handleDeleteRecordSelected(ctx context.Context, chatID int64, user *models.User, data string) {
	id, err := parseSubscriptionCallback(data)
	if err != nil {
		r.reply(chatID, texts.Get(user.Language, "error.generic"))
		return
	}

	count, err := r.subs.Remove(ctx, id, user.UserID)
	if err != nil {
		r.forms.Delete(chatID)
		r.failure(chatID, user, "telegram.handleDeleteRecordSelected", err)
		return
	}
	r.forms.Delete(chatID)
	if count == 0 {
		r.reply(chatID, texts.Get(user.Language, "error.not_found"))
		return
	}
	r.reply(chatID, texts.Get(user.Language, "delete.done"))
	r.showMenu(chatID, user)
}

func parseSubscriptionCallback(data string) (int, error) {
	idStr, _ := strings.CutPrefix(data, "sub_")
	return strconv.Atoi(idStr)
}
