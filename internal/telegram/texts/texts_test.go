package texts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_TableTests(t *testing.T) {
	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{
			name: "russian key",
			lang: "ru",
			key:  KeyNone,
			want: "нет",
		},
		{
			name: "english key",
			lang: "en",
			key:  KeyNone,
			want: "none",
		},
		{
			name: "unknown language falls back to russian",
			lang: "de",
			key:  KeyCancel,
			want: "⬅️ Назад",
		},
		{
			name: "unknown key returned as is",
			lang: "ru",
			key:  "no.such.key",
			want: "no.such.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Get(tt.lang, tt.key))
		})
	}
}

func TestGetf_FormatsArguments(t *testing.T) {
	got := Getf("en", "add.done", "Netflix")
	assert.Equal(t, "Subscription \"Netflix\" added ✅", got)
}

func TestCatalog_LanguagesHaveSameKeys(t *testing.T) {
	for key := range catalog["ru"] {
		_, ok := catalog["en"][key]
		assert.True(t, ok, "key %q missing in en", key)
	}
	for key := range catalog["en"] {
		_, ok := catalog["ru"][key]
		assert.True(t, ok, "key %q missing in ru", key)
	}
}
