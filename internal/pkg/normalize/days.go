package normalize

// Weekdays in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var dayNames = map[string]string{}

func init() {
	spellings := map[string][]string{
		"Monday":    {"mo", "mon", "monday", "montag", "montags"},
		"Tuesday":   {"di", "tu", "tue", "tues", "tuesday", "dienstag", "dienstags"},
		"Wednesday": {"mi", "we", "wed", "wednesday", "mittwoch", "mittwochs"},
		"Thursday":  {"do", "th", "thu", "thur", "thurs", "thursday", "donnerstag", "donnerstags"},
		"Friday":    {"fr", "fri", "friday", "freitag", "freitags"},
		"Saturday":  {"sa", "sat", "saturday", "samstag", "samstags", "sonnabend"},
		"Sunday":    {"so", "su", "sun", "sunday", "sonntag", "sonntags"},
	}
	for day, names := range spellings {
		for _, n := range names {
			dayNames[n] = day
		}
	}
}

// Day maps German or English weekday names and abbreviations ("Mo.", "Dienstag",
// "THU") onto the English weekday. Unrecognised input comes back cleaned.
func Day(s string) string {
	if day, ok := dayNames[Key(s)]; ok {
		return day
	}
	return Clean(s)
}

// IsDay reports whether s names a weekday.
func IsDay(s string) bool {
	_, ok := dayNames[Key(s)]
	return ok
}

// DayIndex orders weekdays Monday=0 ... Sunday=6; anything else sorts last (7).
func DayIndex(s string) int {
	day := Day(s)
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return len(Weekdays)
}
