// internal/parser/outcome.go
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Подстановка единиц измерения выполняется как наивная замена подстрок —
// в том числе внутри других слов ("ok" → "o000"). Это осознанное поведение:
// нормализация должна совпадать с тем, как пользователи реально пишут
// "3k", "two hundred", "1m".
var unitReplacer = strings.NewReplacer(
	"hundred", "00",
	"thousand", "000",
	"k", "000",
	"m", "000000",
)

// negativeCues - слова-маркеры убытка. Проверяются по токенам исходного
// текста: "lost two hundred" — убыток, даже без знака минус.
var negativeCues = map[string]bool{
	"lost":    true,
	"loss":    true,
	"down":    true,
	"dropped": true,
	"minus":   true,
}

var integerLiteral = regexp.MustCompile(`[+-]?\d+`)

// Числительные
var unitWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseOutcome извлекает знаковый целочисленный результат сделки из
// свободного текста. Порядок попыток:
//  1. нормализация (lowercase + подстановка единиц);
//  2. преобразование слов в число ("two 00" → 200, "twenty 00" → 2000);
//  3. первый целочисленный токен;
//  4. неудача — второй результат false.
//
// Знак выводится из маркеров убытка в исходном тексте либо из явного минуса.
func ParseOutcome(text string) (int, bool) {
	raw := strings.ToLower(strings.TrimSpace(text))
	normalized := unitReplacer.Replace(raw)

	if n, ok := wordsToNumber(normalized); ok {
		return applySign(raw, n), true
	}

	// Литерал принимается только целым токеном: остатки подстановки внутри
	// обычных слов ("okay" → "o000ay") не должны давать ложные числа
	for _, tok := range strings.Fields(normalized) {
		tok = strings.Trim(tok, ".,!?;:")
		if tok == "" || !isIntegerToken(tok) {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			return applySign(raw, n), true
		}
	}

	return 0, false
}

// wordsToNumber собирает число из токенов нормализованного текста.
// Токены из одних нулей ("00", "000") — множители, оставшиеся после
// подстановки: "two 00" → 2*100. Неизвестные слова пропускаются.
func wordsToNumber(normalized string) (int, bool) {
	total := 0
	found := false

	for _, tok := range strings.Fields(normalized) {
		tok = strings.Trim(tok, ".,!?;:")
		if tok == "" {
			continue
		}

		switch {
		case isZeroPad(tok):
			if found {
				total *= pow10(len(tok))
			}
		case isIntegerToken(tok):
			// Берем только первую числовую группу
			if !found {
				if n, err := strconv.Atoi(tok); err == nil {
					total = n
					found = true
				}
			}
		default:
			if n, ok := unitWords[tok]; ok {
				total += n
				found = true
			} else if n, ok := tensWords[tok]; ok {
				total += n
				found = true
			}
		}
	}

	if !found {
		return 0, false
	}
	return total, true
}

// applySign делает результат отрицательным, если текст содержит маркер
// убытка. Явный минус в литерале имеет приоритет и не инвертируется повторно.
func applySign(raw string, n int) int {
	if n < 0 {
		return n
	}
	for _, tok := range strings.Fields(raw) {
		if negativeCues[strings.Trim(tok, ".,!?;:")] {
			return -n
		}
	}
	return n
}

// isZeroPad: токен из двух и более нулей — остаток подстановки единиц
func isZeroPad(tok string) bool {
	if len(tok) < 2 {
		return false
	}
	for _, r := range tok {
		if r != '0' {
			return false
		}
	}
	return true
}

func isIntegerToken(tok string) bool {
	return integerLiteral.FindString(tok) == tok
}

func pow10(n int) int {
	result := 1
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}
