package telegram

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	services "github.com/magabrotheeeer/subscription-organizer/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/fsm"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/texts"
)

// startAddFlow запускает форму добавления. Лимит бесплатной версии
// проверяется до первого вопроса.
func (r *Router) startAddFlow(ctx context.Context, chatID int64, user *models.User) {
	ok, err := r.subs.CanAdd(ctx, user)
	if err != nil {
		r.failure(chatID, user, "telegram.startAddFlow", err)
		return
	}
	if !ok {
		r.reply(chatID, texts.Getf(user.Language, "add.limit", r.freeLimit))
		return
	}

	r.forms.Start(chatID, fsm.FlowAdd, fsm.StepCollectingName)
	r.replyMarkup(chatID, texts.Get(user.Language, "add.name"),
		cancelReplyKeyboard(user.Language))
}

// handleAddMessage продвигает форму добавления на один шаг.
// Ошибка валидации оставляет форму на месте и повторяет вопрос.
func (r *Router) handleAddMessage(ctx context.Context, chatID int64, user *models.User, form *fsm.Form, text string) {
	lang := user.Language

	switch form.Step {
	case fsm.StepCollectingName:
		name, err := fsm.ParseName(text)
		if err != nil {
			r.replyValidation(chatID, lang, err)
			return
		}
		form.Draft.Name = name
		form.Step = fsm.StepCollectingAmount
		r.reply(chatID, texts.Get(lang, "add.amount"))

	case fsm.StepCollectingAmount:
		amount, err := fsm.ParseAmount(text)
		if err != nil {
			r.replyValidation(chatID, lang, err)
			return
		}
		form.Draft.Price = amount
		form.Step = fsm.StepCollectingStartDate
		r.reply(chatID, texts.Get(lang, "add.start_date"))

	case fsm.StepCollectingStartDate:
		date, err := fsm.ParseDate(text)
		if err != nil {
			r.replyValidation(chatID, lang, err)
			return
		}
		form.Draft.StartDate = date
		form.Step = fsm.StepCollectingEndDate
		r.reply(chatID, texts.Get(lang, "add.end_date"))

	case fsm.StepCollectingEndDate:
		date, err := fsm.ParseOptionalDate(text, lang)
		if err != nil {
			r.replyValidation(chatID, lang, err)
			return
		}
		form.Draft.EndDate = date
		form.Step = fsm.StepCollectingTrialEnd
		r.reply(chatID, texts.Get(lang, "add.trial_end"))

	case fsm.StepCollectingTrialEnd:
		date, err := fsm.ParseOptionalDate(text, lang)
		if err != nil {
			r.replyValidation(chatID, lang, err)
			return
		}
		form.Draft.TrialEndDate = date
		form.Step = fsm.StepCollectingCategory
		r.showCategoryStep(ctx, chatID, user)

	case fsm.StepCollectingCategory:
		// Категория принимается только кнопкой
		r.reply(chatID, texts.Get(lang, "validate.bad_category"))

	case fsm.StepCollectingNotes:
		form.Draft.Notes = fsm.ParseNotes(text, lang)
		r.commitAdd(ctx, chatID, user, form)
	}
}

// handleAddCategory обрабатывает выбор категории кнопкой.
func (r *Router) handleAddCategory(chatID int64, user *models.User, form *fsm.Form, data string) {
	id, err := fsm.ParseCategoryCallback(data)
	if err != nil {
		r.replyValidation(chatID, user.Language, err)
		return
	}
	form.Draft.CategoryID = &id
	form.Step = fsm.StepCollectingNotes
	r.reply(chatID, texts.Get(user.Language, "add.notes"))
}

// commitAdd записывает собранную подписку. При ошибке вставки форма
// остается на шаге заметок: пользователь может повторить ввод или
// отменить, успех никогда не сообщается при неудачной записи.
func (r *Router) commitAdd(ctx context.Context, chatID int64, user *models.User, form *fsm.Form) {
	_, err := r.subs.Create(ctx, user, form.Draft.Subscription())
	if err != nil {
		if errors.Is(err, services.ErrLimitReached) {
			r.forms.Delete(chatID)
			r.replyRemoveKeyboard(chatID, texts.Getf(user.Language, "add.limit", r.freeLimit))
			return
		}
		form.Step = fsm.StepCollectingNotes
		r.failure(chatID, user, "telegram.commitAdd", err)
		r.reply(chatID, texts.Get(user.Language, "add.failed"))
		return
	}

	r.forms.Delete(chatID)
	r.replyRemoveKeyboard(chatID, texts.Getf(user.Language, "add.done", form.Draft.Name))
	r.showMenu(chatID, user)
}

func (r *Router) showCategoryStep(ctx context.Context, chatID int64, user *models.User) {
	categories, err := r.categories.ListCategories(ctx)
	if err != nil {
		r.failure(chatID, user, "telegram.showCategoryStep", err)
		return
	}
	r.replyMarkup(chatID, texts.Get(user.Language, "add.category"),
		categoriesKeyboard(categories, user.Language))
}

func (r *Router) replyValidation(chatID int64, lang string, err error) {
	var verr *fsm.ValidationError
	if errors.As(err, &verr) {
		r.reply(chatID, texts.Get(lang, verr.Key))
		return
	}
	r.reply(chatID, texts.Get(lang, "error.generic"))
}
