package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Time patterns, tried in order. The first match wins and its literal
// substring is stripped from the working copy of the input.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)`),
	regexp.MustCompile(`(?i)(\d{1,2})\s*(am|pm)`),
	regexp.MustCompile(`(?i)at\s*(\d{1,2}):(\d{2})`),
	regexp.MustCompile(`(?i)at\s*(\d{1,2})\s*(am|pm)`),
}

// Date patterns: keywords first, then MM/DD/YYYY, then YYYY-MM-DD.
var (
	dateKeywordPattern = regexp.MustCompile(`(?i)\b(today|tomorrow)\b`)
	dateSlashPattern   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	dateISOPattern     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
)

var relativePattern = regexp.MustCompile(`(?i)\bin\s*(\d+)\s*(minute|hour)s?\b`)

// Phrases that mark a reminder as repeating daily. Checked against the
// original input, case-insensitively, without consuming anything.
var dailyPhrases = []string{
	"every day",
	"everyday",
	"daily",
	"each day",
	"every morning",
	"every evening",
	"every night",
}

// Filler prepositions stripped from whatever remains after time/date/offset
// extraction.
var fillerPattern = regexp.MustCompile(`(?i)\b(at|on|in|for|to)\b`)

// Fallback deterministically extracts schedule fields from free text. It is
// total: it never fails, and the returned title is never empty. now anchors
// "today"/"tomorrow" resolution.
func Fallback(text string, now time.Time) Fields {
	working := strings.TrimSpace(text)

	fields := Fields{
		Repeat:       RepeatNone,
		UsedFallback: true,
	}

	// 1. Time of day
	for _, pattern := range timePatterns {
		match := pattern.FindStringSubmatch(working)
		if match == nil {
			continue
		}
		fields.Clock = normalizeClock(match)
		working = strings.Replace(working, match[0], "", 1)
		break
	}

	// 2. Calendar date
	if match := dateKeywordPattern.FindStringSubmatch(working); match != nil {
		day := now
		if strings.EqualFold(match[1], "tomorrow") {
			day = now.AddDate(0, 0, 1)
		}
		fields.Date = day.Format("2006-01-02")
		working = strings.Replace(working, match[0], "", 1)
	} else if match := dateSlashPattern.FindStringSubmatch(working); match != nil {
		// MM/DD/YYYY
		month, _ := strconv.Atoi(match[1])
		day, _ := strconv.Atoi(match[2])
		fields.Date = fmt.Sprintf("%s-%02d-%02d", match[3], month, day)
		working = strings.Replace(working, match[0], "", 1)
	} else if match := dateISOPattern.FindStringSubmatch(working); match != nil {
		month, _ := strconv.Atoi(match[2])
		day, _ := strconv.Atoi(match[3])
		fields.Date = fmt.Sprintf("%s-%02d-%02d", match[1], month, day)
		working = strings.Replace(working, match[0], "", 1)
	}

	// 3. Relative offset
	if match := relativePattern.FindStringSubmatch(working); match != nil {
		amount, _ := strconv.Atoi(match[1])
		if strings.EqualFold(match[2], "hour") {
			amount *= 60
		}
		fields.IsRelative = true
		fields.RelativeMinutes = amount
		working = strings.Replace(working, match[0], "", 1)
	}

	// 4. Daily repeat cues (non-consuming, checked against the raw input)
	lower := strings.ToLower(text)
	for _, phrase := range dailyPhrases {
		if strings.Contains(lower, phrase) {
			fields.Repeat = RepeatDaily
			break
		}
	}

	// 5. Title cleanup
	fields.Title = cleanTitle(working)

	return fields
}

// normalizeClock converts a matched time pattern to 24-hour "HH:MM". Matches
// without explicit minutes (e.g. "1 PM") normalize to minute zero.
func normalizeClock(match []string) string {
	hour, _ := strconv.Atoi(match[1])
	minute := 0
	period := ""

	switch len(match) {
	case 4: // H:MM am/pm
		minute, _ = strconv.Atoi(match[2])
		period = strings.ToLower(match[3])
	case 3:
		if d, err := strconv.Atoi(match[2]); err == nil {
			// at H:MM, 24-hour
			minute = d
		} else {
			// H am/pm
			period = strings.ToLower(match[2])
		}
	}

	if period == "pm" && hour != 12 {
		hour += 12
	}
	if period == "am" && hour == 12 {
		hour = 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// cleanTitle strips filler prepositions and leftover whitespace, then
// capitalizes the first letter. Empty results become "Reminder".
func cleanTitle(s string) string {
	s = fillerPattern.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " ,.")
	if s == "" {
		return "Reminder"
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
