package normalize

import (
	"regexp"
	"strconv"
)

// startTime matches the first clock time of a slot: "9:00", "09.30", "14h", "9 Uhr".
var startTime = regexp.MustCompile(`(\d{1,2})(?:\s*[:.h]\s*(\d{2}))?`)

// StartMinutes returns the minutes after midnight at which a time slot such as
// "9:00-10:00" or "ab 14 Uhr" begins. ok is false when no hour is found.
func StartMinutes(s string) (minutes int, ok bool) {
	m := startTime.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}
	if h > 24 || min > 59 {
		return 0, false
	}
	return h*60 + min, true
}

// CompareTimes orders two slots by their start time. Slots without a readable time
// sort after those with one; ties fall back to the text.
func CompareTimes(a, b string) int {
	ma, oka := StartMinutes(a)
	mb, okb := StartMinutes(b)
	switch {
	case oka && okb && ma != mb:
		if ma < mb {
			return -1
		}
		return 1
	case oka != okb:
		if oka {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
