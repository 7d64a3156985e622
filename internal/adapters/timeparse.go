package adapters

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
	titlePattern = regexp.MustCompile(`(?i)^(?:please\s+)?(?:schedule|set up|book|plan)\s+(?:a\s+|an\s+)?(?:meeting|call|event|appointment|task reminder|reminder)?\s*(?:about|for|with|:)?\s*(.*)$`)
)

// ParseWindow resolves a start/end window from command text.
//
// Understood forms: "tomorrow" shifts the date one day ahead, and a trailing
// "<N>am"/"<N>pm" token sets the hour (12am is midnight, 12pm is noon).
// Anything else falls back to one hour from now with a one hour duration.
func ParseWindow(command string, now time.Time) (time.Time, time.Time) {
	lowered := strings.ToLower(command)

	day := now
	dayShifted := false
	if strings.Contains(lowered, "tomorrow") {
		day = now.AddDate(0, 0, 1)
		dayShifted = true
	}

	if m := clockPattern.FindStringSubmatch(command); m != nil {
		hour, err := strconv.Atoi(m[1])
		if err == nil && hour >= 1 && hour <= 12 {
			meridiem := strings.ToLower(m[2])
			if meridiem == "pm" && hour != 12 {
				hour += 12
			}
			if meridiem == "am" && hour == 12 {
				hour = 0
			}
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())
			return start, start.Add(time.Hour)
		}
	}

	if dayShifted {
		start := time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), 0, 0, 0, now.Location())
		return start, start.Add(time.Hour)
	}

	start := now.Add(time.Hour)
	return start, start.Add(time.Hour)
}

// ExtractTitle pulls a human title out of a scheduling command, stripping the
// verb phrase and any time tokens the window parser consumed.
func ExtractTitle(command string) string {
	title := command
	if m := titlePattern.FindStringSubmatch(strings.TrimSpace(command)); m != nil && m[1] != "" {
		title = m[1]
	}

	title = clockPattern.ReplaceAllString(title, "")
	for _, word := range []string{"tomorrow", "today", " at ", " on "} {
		title = removeWordCI(title, word)
	}
	title = strings.Trim(strings.TrimSpace(title), ":,.")
	title = strings.TrimSpace(title)

	if title == "" {
		return "New Meeting"
	}
	return title
}

func removeWordCI(s, word string) string {
	lowered := strings.ToLower(s)
	target := strings.ToLower(word)
	for {
		idx := strings.Index(lowered, target)
		if idx < 0 {
			return s
		}
		s = s[:idx] + " " + s[idx+len(target):]
		lowered = strings.ToLower(s)
	}
}
