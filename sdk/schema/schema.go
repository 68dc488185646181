// Package schema validates a painting submission before it touches the
// network. Pure functions over a rule table; no I/O, no side effects.
package schema

import "strconv"

const (
	YearMin = 1900
	YearMax = 2030
)

// Values holds the raw form fields as the user typed them. Everything but
// Featured is text, mirroring how the fields travel in the multipart body.
type Values struct {
	Title        string
	Year         string
	Medium       string
	Size         string
	Description  string
	Availability string
	Tags         string
	Featured     bool
}

// Submission is a normalized, validated painting record ready to upload.
type Submission struct {
	Title        string
	Year         int
	Medium       string
	Size         string
	Description  string
	Availability string
	Tags         string
	Featured     bool
}

// FieldErrors maps field name to the message shown inline next to it.
type FieldErrors map[string]string

type rule struct {
	field   string
	ok      func(Values) bool
	message string
}

var rules = []rule{
	{"title", func(v Values) bool { return v.Title != "" }, "Title is required"},
	{"year", func(v Values) bool { return yearInRange(v.Year) }, "Year must be between 1900 and 2030"},
	{"medium", func(v Values) bool { return v.Medium != "" }, "Medium is required"},
	{"size", func(v Values) bool { return v.Size != "" }, "Size is required"},
	{"availability", func(v Values) bool { return isAvailability(v.Availability) },
		"Availability must be available, sold or not-for-sale"},
	// description and tags are optional; featured is a bool and defaults
	// to false, so neither needs a rule.
}

func yearInRange(s string) bool {
	year, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return year >= YearMin && year <= YearMax
}

func isAvailability(s string) bool {
	switch s {
	case "available", "sold", "not-for-sale":
		return true
	}
	return false
}

// Validate checks every rule and returns either the normalized submission
// or the full set of field errors. Never both.
func Validate(v Values) (Submission, FieldErrors) {
	errs := FieldErrors{}
	for _, r := range rules {
		if !r.ok(v) {
			errs[r.field] = r.message
		}
	}
	if len(errs) > 0 {
		return Submission{}, errs
	}

	year, _ := strconv.Atoi(v.Year)
	return Submission{
		Title:        v.Title,
		Year:         year,
		Medium:       v.Medium,
		Size:         v.Size,
		Description:  v.Description,
		Availability: v.Availability,
		Tags:         v.Tags,
		Featured:     v.Featured,
	}, nil
}
