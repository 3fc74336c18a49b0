package models

// Category представляет предустановленную категорию подписок.
// Набор категорий фиксирован и заполняется миграцией.
type Category struct {
	ID            int    // Идентификатор категории
	Name          string // Каноническое имя
	Icon          string // Эмодзи для клавиатур и списков
	Color         string // Цвет для mini-app
	TranslationRu string // Название на русском
	TranslationEn string // Название на английском
}

// Translation возвращает название категории на языке пользователя.
func (c Category) Translation(lang string) string {
	if lang == "en" {
		return c.TranslationEn
	}
	return c.TranslationRu
}
