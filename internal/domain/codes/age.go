package codes

import "time"

// AgeCode is the federation rider age category.
type AgeCode string

// Age categories.
const (
	AgeMajor      AgeCode = "MJ"
	AgeSenior     AgeCode = "S"
	AgeYoungRider AgeCode = "YR"
	AgeJunior     AgeCode = "J"
	AgeCadet      AgeCode = "C"
	AgePony       AgeCode = "P"
)

// AgeCodeFor returns the category for a birth date at the given instant.
// A zero birth date is a senior.
func AgeCodeFor(birth, now time.Time) AgeCode {
	if birth.IsZero() {
		return AgeSenior
	}
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	switch {
	case age >= 50:
		return AgeMajor
	case age >= 21:
		return AgeSenior
	case age >= 18:
		return AgeYoungRider
	case age >= 16:
		return AgeJunior
	case age >= 14:
		return AgeCadet
	}
	return AgePony
}

// Label is the French label of the category.
func (a AgeCode) Label() string {
	switch a {
	case AgeMajor:
		return "Majors"
	case AgeYoungRider:
		return "Young Riders"
	case AgeJunior:
		return "Juniors"
	case AgeCadet:
		return "Cadets"
	case AgePony:
		return "Poneys"
	default:
		return "Seniors"
	}
}
