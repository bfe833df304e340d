package normalize

import "strings"

// Alias sets for the columns the site reads from worksheets. Order matters: earlier
// aliases win when several headers match.
var (
	ProfessorAliases = []string{
		"professor", "professorin", "prof", "dozent", "dozentin", "lehrende", "lehrender",
		"lehrperson", "lecturer", "instructor", "teacher",
	}
	DayAliases  = []string{"day", "weekday", "weekdays", "wochentag", "tag"}
	TimeAliases = []string{
		"time", "uhrzeit", "zeit", "sprechzeit", "sprechstunde", "slot", "hours", "officehours",
	}
	SubjectAliases = []string{
		"subject", "fach", "course", "kurs", "modul", "module", "lehrveranstaltung",
		"veranstaltung", "lecture",
	}
	RoomAliases            = []string{"room", "raum", "location", "ort", "building", "gebaude"}
	ProgramSemesterAliases = []string{
		"programsemester", "programmesemester", "studiengangsemester", "program", "programme",
		"studyprogramme", "studyprogram", "courseofstudy", "studiengang", "semester",
	}
)

// minSubstringAlias is the shortest alias key tried in the substring pass; shorter
// aliases such as "id" only match a header exactly.
const minSubstringAlias = 3

// FindColumn resolves the header that best matches one of the aliases. An exact match
// on the comparison key beats a substring match; within each pass the alias order
// decides. The original header text is returned so it can index a row map.
func FindColumn(header []string, aliases ...string) (string, bool) {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = Key(h)
	}

	for _, alias := range aliases {
		a := Key(alias)
		if a == "" {
			continue
		}
		for i, k := range keys {
			if k == a {
				return header[i], true
			}
		}
	}

	for _, alias := range aliases {
		a := Key(alias)
		if len(a) < minSubstringAlias {
			continue
		}
		for i, k := range keys {
			if k != "" && strings.Contains(k, a) {
				return header[i], true
			}
		}
	}

	return "", false
}

// Value returns the trimmed cell of the column matching aliases, or "".
func Value(header []string, values map[string]string, aliases ...string) string {
	col, ok := FindColumn(header, aliases...)
	if !ok {
		return ""
	}
	return strings.TrimSpace(values[col])
}

// Columns holds the resolved timetable columns; empty fields were not found.
type Columns struct {
	Day             string `json:"day,omitempty"`
	Time            string `json:"time,omitempty"`
	Subject         string `json:"subject,omitempty"`
	Professor       string `json:"professor,omitempty"`
	Room            string `json:"room,omitempty"`
	ProgramSemester string `json:"programSemester,omitempty"`
}

// DetectColumns runs FindColumn for every timetable role. A header claimed by one
// role is not offered to a later one, so "Kurs" cannot be both subject and programme.
func DetectColumns(header []string) Columns {
	claimed := map[string]bool{}
	pick := func(aliases []string) string {
		free := make([]string, 0, len(header))
		for _, h := range header {
			if !claimed[h] {
				free = append(free, h)
			}
		}
		col, ok := FindColumn(free, aliases...)
		if !ok {
			return ""
		}
		claimed[col] = true
		return col
	}

	var c Columns
	// programme/semester is claimed first so "Semester" never reaches another role
	c.ProgramSemester = pick(ProgramSemesterAliases)
	c.Professor = pick(ProfessorAliases)
	c.Day = pick(DayAliases)
	c.Time = pick(TimeAliases)
	c.Room = pick(RoomAliases)
	c.Subject = pick(SubjectAliases)
	return c
}
