// Package normalize converts Posten text fields to OpenStreetMap conventions.
package normalize

import "strings"

// punctuationSteps turn "man.–fre. 08.00–22.00" into "man-fre 08:00-22:00".
// Order matters.
var punctuationSteps = [][2]string{
	{"–", "-"},
	{".-", "-"},
	{". ", " "},
	{" - ", "-"},
	{":", ""},
	{".", ":"},
}

var days = [][2]string{
	{"man", "Mo"},
	{"tir", "Tu"},
	{"ons", "We"},
	{"tor", "Th"},
	{"fre", "Fr"},
	{"lør", "Sa"},
	{"søn", "Su"},
}

var clockFixes = [][2]string{
	{"00:01", "00:00"},
	{"23:58", "24:00"},
	{"23:59", "24:00"},
}

func replaceEach(s string, steps [][2]string) string {
	for _, st := range steps {
		s = strings.ReplaceAll(s, st[0], st[1])
	}
	return s
}

// OpeningHours converts a Posten schedule such as
// "Man.–fre. 08.00–22.00, Lør. 08.00–20.00" to the OSM opening_hours form
// "Mo-Fr 08:00-22:00, Sa 08:00-20:00". Closed days (00:00-00:00) are dropped
// and round-the-clock schedules become "24/7". Empty input yields "".
func OpeningHours(csv string) string {
	if csv == "" {
		return ""
	}

	s := strings.ToLower(csv)
	s = replaceEach(s, punctuationSteps)
	s = replaceEach(s, days)
	s = replaceEach(s, clockFixes)

	var open []string
	for _, day := range strings.Split(s, ", ") {
		if !strings.Contains(day, "00:00-00:00") {
			open = append(open, day)
		}
	}

	result := strings.Join(open, ", ")
	if result == "Mo-Su 00:00-24:00" || result == "Mo-Su døgnåpent" {
		return "24/7"
	}
	return result
}
