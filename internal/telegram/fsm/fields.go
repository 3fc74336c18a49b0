package fsm

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/texts"
)

// DateLayout формат дат, принимаемых от пользователя.
const DateLayout = "2006-01-02"

// ValidationError сигнализирует о неподходящем вводе. Key — ключ текста
// с объяснением ожидаемого формата, форма остаётся на текущем шаге.
type ValidationError struct {
	Key string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Key
}

// ParseName принимает непустой текст.
func ParseName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", &ValidationError{Key: "validate.name_empty"}
	}
	return name, nil
}

// ParseAmount принимает неотрицательное конечное число без символов
// валюты. ParseFloat пропускает "nan" и "inf", ценой они быть не могут.
func ParseAmount(value string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &ValidationError{Key: "validate.bad_amount"}
	}
	return amount, nil
}

// ParseDate принимает дату в фиксированном формате ГГГГ-ММ-ДД.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &ValidationError{Key: "validate.bad_date"}
	}
	return date, nil
}

// ParseOptionalDate принимает дату или слово «нет»/«none» на языке
// пользователя. Токен отсутствия — это nil, а не ошибка формата.
func ParseOptionalDate(value, lang string) (*time.Time, error) {
	if isNoneToken(value, lang) {
		return nil, nil
	}
	date, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// ParseNotes принимает любой текст; токен отсутствия даёт nil.
func ParseNotes(value, lang string) *string {
	if isNoneToken(value, lang) {
		return nil
	}
	notes := strings.TrimSpace(value)
	return &notes
}

// ParseActive принимает ровно "1" или "0".
func ParseActive(value string) (bool, error) {
	switch strings.TrimSpace(value) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, &ValidationError{Key: "validate.bad_active"}
	}
}

// ParseCategoryCallback разбирает callback-токен вида category_<id>.
// Свободный текст на шаге выбора категории не принимается.
func ParseCategoryCallback(data string) (int, error) {
	idStr, ok := strings.CutPrefix(data, "category_")
	if !ok {
		return 0, &ValidationError{Key: "validate.bad_category"}
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Key: "validate.bad_category"}
	}
	return id, nil
}

// IsCancel сообщает, является ли ввод токеном отмены. Проверяется
// строковым сравнением до любой другой интерпретации сообщения.
func IsCancel(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == texts.Get("ru", texts.KeyCancel) ||
		trimmed == texts.Get("en", texts.KeyCancel)
}

func isNoneToken(value, lang string) bool {
	return strings.EqualFold(strings.TrimSpace(value), texts.Get(lang, texts.KeyNone))
}

// Field описывает редактируемое поле подписки: номер в меню выбора,
// колонку хранилища и разбор нового значения.
type Field struct {
	Number   int
	Column   string
	IsDate   bool
	Category bool
	// Parse превращает пользовательский ввод в значение для хранилища.
	Parse func(value, lang string) (any, error)
}

var fields = []Field{
	{Number: 1, Column: "name", Parse: func(v, _ string) (any, error) {
		return ParseName(v)
	}},
	{Number: 2, Column: "price", Parse: func(v, _ string) (any, error) {
		return ParseAmount(v)
	}},
	{Number: 3, Column: "start_date", IsDate: true, Parse: func(v, _ string) (any, error) {
		return ParseDate(v)
	}},
	{Number: 4, Column: "end_date", IsDate: true, Parse: func(v, lang string) (any, error) {
		return ParseOptionalDate(v, lang)
	}},
	{Number: 5, Column: "trial_end_date", IsDate: true, Parse: func(v, lang string) (any, error) {
		return ParseOptionalDate(v, lang)
	}},
	{Number: 6, Column: "category_id", Category: true, Parse: func(v, _ string) (any, error) {
		return ParseCategoryCallback(v)
	}},
	{Number: 7, Column: "notes", Parse: func(v, lang string) (any, error) {
		return ParseNotes(v, lang), nil
	}},
	{Number: 8, Column: "is_active", Parse: func(v, _ string) (any, error) {
		return ParseActive(v)
	}},
}

// FieldByNumber возвращает поле по номеру из меню выбора.
func FieldByNumber(value string) (*Field, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, &ValidationError{Key: "edit.bad_field"}
	}
	for i := range fields {
		if fields[i].Number == n {
			return &fields[i], nil
		}
	}
	return nil, &ValidationError{Key: "edit.bad_field"}
}

// FieldsCount количество редактируемых полей.
func FieldsCount() int {
	return len(fields)
}
