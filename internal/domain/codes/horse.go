package codes

import "strings"

// Gender is the platform horse sex code.
type Gender string

// Horse genders.
const (
	Mare     Gender = "sto"
	Gelding  Gender = "val"
	Stallion Gender = "hin"
)

// HorseGender maps the federation's free text sex to the platform code.
// Unrecognized text is a gelding.
func HorseGender(sexe string) Gender {
	s := foldAccents(strings.ToLower(sexe))
	switch {
	case strings.Contains(s, "jument"):
		return Mare
	case strings.Contains(s, "hongre"):
		return Gelding
	case strings.Contains(s, "etalon"), strings.Contains(s, "entier"):
		return Stallion
	}
	return Gelding
}

// SIF is the one letter sex of the text exports.
func (g Gender) SIF() string {
	switch g {
	case Stallion:
		return "E"
	case Mare:
		return "J"
	default:
		return "H"
	}
}

// Label is the French label.
func (g Gender) Label() string {
	switch g {
	case Stallion:
		return "Etalon"
	case Mare:
		return "Jument"
	default:
		return "Hongre"
	}
}

type substringCode struct {
	needle string
	code   string
}

var breeds = []substringCode{
	{"SELLE FRANCAIS", "SF"},
	{"ANGLO", "AES"},
	{"KWPN", "KWPN"},
	{"OLDENBURG", "OLD"},
	{"WESTF", "WESTF"},
	{"TRAKEH", "TRAK"},
	{"HANNOV", "HANN"},
	{"HOLSTEIN", "HOLST"},
	{"BWP", "BWP"},
	{"ZANGERSHEIDE", "ZANG"},
}

var colors = []substringCode{
	{"BAI", "BAI"},
	{"ALEZAN", "ALEZAN"},
	{"GRIS", "GRIS"},
	{"NOIR", "NOIR"},
	{"ISABELLE", "ISABELLA"},
	{"PIE", "PIE"},
	{"ROUAN", "ROUAN"},
	{"PALOMINO", "PALOMINO"},
}

// Default breed and color codes.
const (
	DefaultBreed = "SF"
	DefaultColor = "BAI"
)

// Breed maps a breed label to its short code, SF by default.
func Breed(breed string) string {
	return lookupSubstring(breeds, breed, DefaultBreed)
}

// Color maps a coat label to its short code, BAI by default.
func Color(color string) string {
	return lookupSubstring(colors, color, DefaultColor)
}

func lookupSubstring(table []substringCode, s, def string) string {
	s = foldAccents(strings.ToUpper(strings.TrimSpace(s)))
	if s == "" {
		return def
	}
	for _, e := range table {
		if strings.Contains(s, e.needle) {
			return e.code
		}
	}
	return def
}

var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"É", "E", "È", "E", "Ê", "E", "Ë", "E",
	"ç", "c", "Ç", "C",
	"à", "a", "â", "a", "À", "A", "Â", "A",
	"î", "i", "ï", "i", "Î", "I", "Ï", "I",
	"ô", "o", "Ô", "O",
	"û", "u", "ü", "u", "ù", "u", "Û", "U", "Ü", "U",
)

func foldAccents(s string) string { return accentFolder.Replace(s) }
