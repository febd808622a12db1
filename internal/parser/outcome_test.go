// internal/parser/outcome_test.go
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"явный плюс", "+500", 500},
		{"явный минус", "-200", -200},
		{"число в предложении", "I profited 500", 500},
		{"словесное число с убытком", "lost two hundred", -200},
		{"сокращение k", "3k", 3000},
		{"сокращение k с убытком", "down 3k", -3000},
		{"словесное число", "I made three hundred", 300},
		{"twenty hundred", "twenty 00", 2000},
		{"составное число", "twenty five", 25},
		{"составное с множителем", "two hundred fifty", 250},
		{"minus как маркер", "minus 200", -200},
		{"loss как маркер", "a loss of 150", -150},
		{"цифра плюс слово hundred", "3 hundred", 300},
		{"число с мусором", "500 bucks", 500},
		{"плюс в середине", "I made +300 today", 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOutcome(tt.input)
			require.True(t, ok, "ожидался успешный разбор %q", tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseOutcomeNoNumber(t *testing.T) {
	for _, input := range []string{
		"free text no numbers",
		"no digits here",
		"",
		"   ",
		"felt great about it",
		// Остатки подстановки внутри обычных слов ("okay" → "o000ay",
		// "numbers" → "nu000000bers") не являются числами
		"it went okay I guess??",
		"market was calm today",
	} {
		_, ok := ParseOutcome(input)
		assert.False(t, ok, "не ожидалось число в %q", input)
	}
}

// Подстановка единиц — наивная замена подстрок, в том числе внутри слов.
// Фиксируем это поведение, чтобы случайно не «починить».
func TestParseOutcomeSubstitutionQuirks(t *testing.T) {
	// "thousand" заменяется целиком раньше, чем "k" внутри него
	got, ok := ParseOutcome("two thousand")
	require.True(t, ok)
	assert.Equal(t, 2000, got)

	// "lost" не число, но после подстановки "two hundred" дает 200 с минусом
	got, ok = ParseOutcome("Lost 2 hundred")
	require.True(t, ok)
	assert.Equal(t, -200, got)
}

func TestParseOutcomeExplicitMinusNotDoubled(t *testing.T) {
	// Маркер убытка плюс явный минус не инвертируют знак дважды
	got, ok := ParseOutcome("lost -200")
	require.True(t, ok)
	assert.Equal(t, -200, got)
}
