package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain text", input: "Netflix", want: "Netflix"},
		{name: "trims spaces", input: "  Spotify  ", want: "Spotify"},
		{name: "empty", input: "", wantErr: true},
		{name: "only spaces", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.input)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "integer", input: "15", want: 15},
		{name: "decimal point", input: "15.99", want: 15.99},
		{name: "decimal comma", input: "15,99", want: 15.99},
		{name: "zero allowed", input: "0", want: 0},
		{name: "currency symbol rejected", input: "$15.99", wantErr: true},
		{name: "negative rejected", input: "-5", wantErr: true},
		{name: "words rejected", input: "пятнадцать", wantErr: true},
		{name: "nan rejected", input: "nan", wantErr: true},
		{name: "inf rejected", input: "inf", wantErr: true},
		{name: "negative inf rejected", input: "-Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("01.09.2026")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "validate.bad_date", verr.Key)
}

func TestParseOptionalDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		lang     string
		wantNil  bool
		wantErr  bool
		wantDate time.Time
	}{
		{name: "russian none token", input: "нет", lang: "ru", wantNil: true},
		{name: "english none token", input: "none", lang: "en", wantNil: true},
		{name: "none token case insensitive", input: "НЕТ", lang: "ru", wantNil: true},
		{name: "valid date", input: "2027-01-15", lang: "ru",
			wantDate: time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "garbage is parse failure not none", input: "никогда", lang: "ru", wantErr: true},
		{name: "wrong language none token rejected", input: "none", lang: "ru", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptionalDate(tt.input, tt.lang)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantDate, *got)
		})
	}
}

func TestParseCategoryCallback(t *testing.T) {
	id, err := ParseCategoryCallback("category_7")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	for _, input := range []string{"Музыка", "category_", "category_abc", "category_0"} {
		_, err := ParseCategoryCallback(input)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "input %q", input)
	}
}

func TestParseActive(t *testing.T) {
	active, err := ParseActive("1")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = ParseActive("0")
	require.NoError(t, err)
	assert.False(t, active)

	for _, input := range []string{"да", "yes", "true", "2"} {
		_, err := ParseActive(input)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "input %q", input)
	}
}

func TestIsCancel(t *testing.T) {
	assert.True(t, IsCancel("⬅️ Назад"))
	assert.True(t, IsCancel("⬅️ Back"))
	assert.True(t, IsCancel("  ⬅️ Назад  "))
	assert.False(t, IsCancel("назад"))
	assert.False(t, IsCancel("Netflix"))
}

func TestFieldByNumber(t *testing.T) {
	field, err := FieldByNumber("2")
	require.NoError(t, err)
	assert.Equal(t, "price", field.Column)

	field, err = FieldByNumber("8")
	require.NoError(t, err)
	assert.Equal(t, "is_active", field.Column)

	for _, input := range []string{"0", "9", "abc", ""} {
		_, err := FieldByNumber(input)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "input %q", input)
	}
}

func TestFieldParsers_CoverAllColumns(t *testing.T) {
	assert.Equal(t, 8, FieldsCount())

	field, err := FieldByNumber("4")
	require.NoError(t, err)

	value, err := field.Parse("нет", "ru")
	require.NoError(t, err)
	assert.Nil(t, value.(*time.Time))

	value, err = field.Parse("2026-12-31", "ru")
	require.NoError(t, err)
	require.NotNil(t, value.(*time.Time))
}
