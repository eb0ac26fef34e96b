// Package codes holds the static federation and platform code tables.
//
// Every mapping in this package is total: unknown input maps to a documented
// default and never produces an error.
package codes

import "strings"

// Discipline is the platform's single-letter discipline code.
type Discipline string

// Known disciplines.
const (
	Jumping     Discipline = "H"
	Dressage    Discipline = "D"
	Eventing    Discipline = "F"
	Endurance   Discipline = "E"
	Driving     Discipline = "A"
	Vaulting    Discipline = "V"
	Reining     Discipline = "R"
	Western     Discipline = "W"
	PonyGames   Discipline = "P"
	Trec        Discipline = "T"
	DrivingAlt  Discipline = "K"
	ShowJumping Discipline = "S"
)

// DefaultDiscipline is used for any unmapped federation code.
const DefaultDiscipline = Jumping

var ffeDisciplines = map[string]Discipline{
	"01": Jumping,
	"02": Jumping,
	"03": Dressage,
	"04": Eventing,
	"05": Endurance,
	"06": Driving,
	"07": Vaulting,
	"08": Reining,
	"09": Western,
	"10": PonyGames,
	"11": Trec,
}

// DisciplineFromFFE maps the federation's numeric discipline code ("01".."11")
// to the platform letter. Single digit codes are accepted.
func DisciplineFromFFE(code string) Discipline {
	code = strings.TrimSpace(code)
	if len(code) == 1 {
		code = "0" + code
	}
	if d, ok := ffeDisciplines[code]; ok {
		return d
	}
	return DefaultDiscipline
}

// ParseDiscipline reads a platform letter as found in remote records (z field).
// Empty input is jumping.
func ParseDiscipline(s string) Discipline {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultDiscipline
	}
	return Discipline(s[:1])
}

// FFECompet returns the 2-char discipline code used on fixed-width line 01.
func (d Discipline) FFECompet() string {
	switch d {
	case Dressage:
		return "DR"
	case Eventing:
		return "CC"
	case Driving, DrivingAlt:
		return "AT"
	case Endurance:
		return "EN"
	default:
		return "HU"
	}
}

// SIFName returns the discipline label of the generic SIF XML schema.
func (d Discipline) SIFName() string {
	switch d {
	case Dressage:
		return "DRESSAGE"
	case Eventing:
		return "CCE"
	case Driving, DrivingAlt:
		return "ATTELAGE"
	case Endurance:
		return "ENDURANCE"
	default:
		return "CSO"
	}
}

// SIFNumber returns the numeric discipline used by the text exports.
func (d Discipline) SIFNumber() string {
	switch d {
	case Dressage:
		return "03"
	case Eventing:
		return "04"
	case Driving:
		return "08"
	case DrivingAlt:
		return "05"
	case Endurance:
		return "06"
	case Reining:
		return "07"
	default:
		return "01"
	}
}

// Label is a human readable name for summaries.
func (d Discipline) Label() string {
	switch d {
	case Jumping, ShowJumping:
		return "Saut d'obstacles"
	case Dressage:
		return "Dressage"
	case Eventing:
		return "Concours complet"
	case Endurance:
		return "Endurance"
	case Driving, DrivingAlt:
		return "Attelage"
	case Vaulting:
		return "Voltige"
	case Reining:
		return "Reining"
	case Western:
		return "Western"
	case PonyGames:
		return "Pony games"
	case Trec:
		return "TREC"
	default:
		return "Saut d'obstacles"
	}
}

// RecordType is the fixed-width result record code for a discipline.
type RecordType string

// Result record types.
const (
	RecordJumping  RecordType = "05"
	RecordDressage RecordType = "06"
	RecordEventing RecordType = "07"
	RecordDriving  RecordType = "08"
)

// ResultRecord picks the result line layout. Disciplines without a layout of
// their own use the jumping line.
func (d Discipline) ResultRecord() RecordType {
	switch d {
	case Dressage:
		return RecordDressage
	case Eventing:
		return RecordEventing
	case Driving, DrivingAlt:
		return RecordDriving
	default:
		return RecordJumping
	}
}
