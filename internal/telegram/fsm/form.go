// Package fsm реализует машину состояний диалоговых форм бота:
// пошаговый сбор полей подписки, редактирование и хранение
// черновиков в памяти с истечением по TTL.
package fsm

import (
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// Flow тип диалога.
type Flow int

const (
	FlowAdd Flow = iota + 1
	FlowEdit
	FlowDelete
)

// Step шаг диалога. Каждый шаг обрабатывает ровно одно сообщение:
// ввод либо продвигает форму, либо возвращает ошибку валидации
// с повторным запросом, либо отменяет форму целиком.
type Step int

const (
	StepCollectingName Step = iota + 1
	StepCollectingAmount
	StepCollectingStartDate
	StepCollectingEndDate
	StepCollectingTrialEnd
	StepCollectingCategory
	StepCollectingNotes

	StepSelectingRecord
	StepSelectingField
	StepEnteringNewValue
)

// Draft накапливает поля подписки по мере прохождения формы добавления.
type Draft struct {
	Name         string
	Price        float64
	StartDate    time.Time
	EndDate      *time.Time
	TrialEndDate *time.Time
	CategoryID   *int
	Notes        *string
}

// Subscription собирает черновик в доменную модель.
func (d Draft) Subscription() models.Subscription {
	return models.Subscription{
		Name:         d.Name,
		Price:        d.Price,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		TrialEndDate: d.TrialEndDate,
		CategoryID:   d.CategoryID,
		Notes:        d.Notes,
	}
}

// Form состояние одного диалога. Привязывается к чату в Manager.
type Form struct {
	Flow  Flow
	Step  Step
	Draft Draft

	// Поля формы редактирования
	SubscriptionID int
	Field          *Field

	UpdatedAt time.Time
}
