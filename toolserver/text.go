package toolserver

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

var extractionPatterns = map[string]*regexp.Regexp{
	"emails":        regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	"urls":          regexp.MustCompile(`https?://[a-zA-Z0-9$\-_@.&+!*(),%]+`),
	"phone_numbers": regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`),
	"dates":         regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
	"numbers":       regexp.MustCompile(`\d+(?:\.\d+)?`),
}

// analyzeText computes word, sentence, and character metrics.
func analyzeText(text string) map[string]any {
	words := strings.Fields(text)

	var sentences []string
	for _, s := range strings.Split(text, ".") {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, strings.TrimSpace(s))
		}
	}

	var upper, lower, digits, special int
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		case unicode.IsDigit(r):
			digits++
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r):
			special++
		}
	}

	var totalWordLen int
	longest, shortest := "", ""
	for _, w := range words {
		trimmed := strings.Trim(w, `.,!?;:"()[]{}`)
		totalWordLen += len(trimmed)
		if longest == "" || len(w) > len(longest) {
			longest = w
		}
		if shortest == "" || len(w) < len(shortest) {
			shortest = w
		}
	}

	avgWordLen := 0.0
	if len(words) > 0 {
		avgWordLen = round2(float64(totalWordLen) / float64(len(words)))
	}
	avgSentenceLen := 0.0
	if len(sentences) > 0 {
		avgSentenceLen = round2(float64(len(words)) / float64(len(sentences)))
	}

	return map[string]any{
		"word_count":          len(words),
		"sentence_count":      len(sentences),
		"paragraph_count":     len(strings.Split(text, "\n\n")),
		"avg_word_length":     avgWordLen,
		"avg_sentence_length": avgSentenceLen,
		"character_analysis": map[string]any{
			"total_chars":     len(text),
			"chars_no_spaces": len(strings.ReplaceAll(text, " ", "")),
			"uppercase":       upper,
			"lowercase":       lower,
			"digits":          digits,
			"special_chars":   special,
		},
		"longest_word":  longest,
		"shortest_word": shortest,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// transformText applies one of the supported transformations.
func transformText(text, transformation string) (string, error) {
	switch transformation {
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	case "title":
		return titleCase(text), nil
	case "reverse":
		runes := []rune(text)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	case "pig_latin":
		return pigLatin(text), nil
	default:
		return "", fmt.Errorf("unknown transformation: %s", transformation)
	}
}

func titleCase(text string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		var out rune
		if unicode.IsLetter(prev) {
			out = unicode.ToLower(r)
		} else {
			out = unicode.ToUpper(r)
		}
		prev = r
		return out
	}, text)
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// pigLatin converts each word: vowel-initial words get "way", consonant
// clusters move to the end followed by "ay". Trailing punctuation is
// preserved.
func pigLatin(text string) string {
	words := strings.Split(text, " ")
	out := make([]string, 0, len(words))
	for _, word := range words {
		punct := ""
		clean := word
		if len(word) > 0 && strings.ContainsRune(".,!?;:", rune(word[len(word)-1])) {
			punct = word[len(word)-1:]
			clean = word[:len(word)-1]
		}
		if clean == "" {
			out = append(out, word)
			continue
		}

		runes := []rune(clean)
		if isVowel(runes[0]) {
			out = append(out, clean+"way"+punct)
			continue
		}
		firstVowel := len(runes)
		for i, r := range runes {
			if isVowel(r) {
				firstVowel = i
				break
			}
		}
		pig := string(runes[firstVowel:]) + string(runes[:firstVowel]) + "ay"
		out = append(out, pig+punct)
	}
	return strings.Join(out, " ")
}

// extractInformation pulls pattern matches out of text. Phone numbers
// are normalized to "(area) prefix-line" form.
func extractInformation(text, extractionType string) ([]string, error) {
	pattern, ok := extractionPatterns[extractionType]
	if !ok {
		types := make([]string, 0, len(extractionPatterns))
		for t := range extractionPatterns {
			types = append(types, t)
		}
		return nil, fmt.Errorf("unknown extraction type %q, available: %s", extractionType, strings.Join(types, ", "))
	}

	if extractionType == "phone_numbers" {
		matches := pattern.FindAllStringSubmatch(text, -1)
		out := make([]string, 0, len(matches))
		for _, m := range matches {
			out = append(out, fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3]))
		}
		return out, nil
	}
	return pattern.FindAllString(text, -1), nil
}
