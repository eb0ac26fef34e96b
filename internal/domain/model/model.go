// Package model contains the canonical entities produced by the XML
// normalizer and the platform records consumed by the exporters.
package model

import "github.com/okian/ffebridge/internal/domain/codes"

// Organizer is the club running a concours.
type Organizer struct {
	Num  string `json:"num"`
	Name string `json:"nom"`
}

// Concours is the overall event.
type Concours struct {
	Num        string    `json:"num_ffe"`
	Name       string    `json:"nom"`
	Department string    `json:"departement"`
	StartDate  string    `json:"date_debut"`
	EndDate    string    `json:"date_fin"`
	Organizer  Organizer `json:"organisateur"`
}

// Official is a judge or steward declared on an epreuve.
type Official struct {
	License      string `json:"licence"`
	LastName     string `json:"nom"`
	FirstName    string `json:"prenom"`
	FunctionName string `json:"nom_fonction"`
	FunctionCode string `json:"code_fonction"`
	MinLevel     string `json:"niv_min"`
	MinCount     int    `json:"nb_min"`
	MaxCount     int    `json:"nb_max"`
	Mandatory    int    `json:"obl_resus"`
}

// Competition is one epreuve. Level is the only field changed after parse.
type Competition struct {
	ForeignID       string           `json:"foreign_id"`
	ConcoursNum     string           `json:"concours_num_ffe"`
	Num             string           `json:"clabb"`
	Name            string           `json:"klass"`
	Date            string           `json:"datum"`
	StartTime       string           `json:"heure_debut"`
	Level           codes.Level      `json:"x"`
	Discipline      codes.Discipline `json:"z"`
	DisciplineFFE   string           `json:"discipline_ffe"`
	DisciplineLabel string           `json:"discipline_libelle"`
	Category        string           `json:"categorie"`
	ScaleCode       string           `json:"code_bareme"`
	ScaleName       string           `json:"nom_bareme"`
	EntryFee        float64          `json:"montant_eng"`
	PrizeMoney      float64          `json:"dotation_epreuve"`
	EntryCount      int              `json:"nbr_engages"`
	Team            bool             `json:"team_class"`
	ProtocolVersion string           `json:"id_protocole_version"`
	// JudgementID is nil when the protocol has no known template.
	JudgementID *int       `json:"judgement_id,omitempty"`
	Officials   []Official `json:"officials,omitempty"`
	// JudgeList is the "Firstname LASTNAME (FRA), ..." roster in document order.
	JudgeList string `json:"domarec_kb,omitempty"`
}

// RiderFields are the submitting-account custom fields carried by a rider.
type RiderFields struct {
	Account string `json:"compte_engageur,omitempty"`
	License string `json:"licence_engageur,omitempty"`
}

// Empty reports whether no submitting account was declared.
func (f RiderFields) Empty() bool { return f.Account == "" && f.License == "" }

// Person is a rider. Officials keep their own type and are merged only in
// the outbound batch.
type Person struct {
	License        string        `json:"lic"`
	LastName       string        `json:"nom"`
	FirstName      string        `json:"prenom"`
	BirthDate      string        `json:"dnaiss"`
	Title          string        `json:"titre_cavalier"`
	FEINumber      string        `json:"numero_fei"`
	Category       string        `json:"categorie"`
	AgeCode        codes.AgeCode `json:"code_age"`
	AgeLabel       string        `json:"libelle_age"`
	Club           string        `json:"club"`
	ClubName       string        `json:"nom_club"`
	CRE            string        `json:"cre"`
	Region         string        `json:"region"`
	RegionName     string        `json:"nom_region"`
	Department     string        `json:"departement_cavalier"`
	DepartmentName string        `json:"nom_departement_cavalier"`
	Fields         RiderFields   `json:"rider_custom_fields"`
}

// Ancestor is a parent in a horse pedigree.
type Ancestor struct {
	Name      string    `json:"nom"`
	BreedCode string    `json:"race_code"`
	Breed     string    `json:"race"`
	Father    *Ancestor `json:"pere,omitempty"`
}

// Horse is keyed by its normalized SIRE.
type Horse struct {
	Sire            string       `json:"sire"`
	Name            string       `json:"nom"`
	BirthDate       string       `json:"dnaiss"`
	Age             int          `json:"equide_age"`
	Height          string       `json:"taille"`
	Breed           string       `json:"race"`
	BreedCode       string       `json:"code_race"`
	Coat            string       `json:"robe"`
	CoatCode        string       `json:"code_robe"`
	Sex             string       `json:"sexe"`
	Gender          codes.Gender `json:"gender"`
	Transponder     string       `json:"transpondeur"`
	FEIID           string       `json:"equide_fei"`
	FEIPassport     string       `json:"passeport_fei"`
	FEIRegistration string       `json:"enregistrement_fei"`
	Earnings        float64      `json:"equide_gain"`
	CountryCode     string       `json:"equide_code_pays"`
	CountryName     string       `json:"equide_libelle_pays"`
	Breeder         string       `json:"eleveur"`
	Owner           string       `json:"proprietaire"`
	Father          *Ancestor    `json:"pere,omitempty"`
	Mother          *Ancestor    `json:"mere,omitempty"`
}

// DamSire is the name of the mother's father, empty when unknown.
func (h Horse) DamSire() string {
	if h.Mother == nil || h.Mother.Father == nil {
		return ""
	}
	return h.Mother.Father.Name
}

// Club is keyed by its federation number.
type Club struct {
	Num        string `json:"num"`
	Name       string `json:"nom"`
	CRE        string `json:"cre"`
	Region     string `json:"region"`
	RegionName string `json:"nom_region"`
	Department string `json:"departement"`
}

// StartFields are the derived start custom fields.
type StartFields struct {
	Terrain    bool `json:"engagement_terrain"`
	Invitation bool `json:"invitation_organisateur"`
}

// Coach accompanies a rider on an engagement.
type Coach struct {
	License   string `json:"lic"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
}

// Submitter is the account that entered the engagement.
type Submitter struct {
	Type      string `json:"type_engageur"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Num       string `json:"num"`
}

// Start is one engagement of a rider and horse in a competition.
type Start struct {
	ForeignID        string      `json:"foreign_id"`
	CompetitionID    string      `json:"competition_foreign_id"`
	RiderLicense     string      `json:"cavalier_lic"`
	HorseSire        string      `json:"equide_sire"`
	Bib              int         `json:"dossard"`
	OutOfCompetition bool        `json:"hors_classement"`
	Role             string      `json:"role"`
	Performance      string      `json:"iperf_couple"`
	Fields           StartFields `json:"start_custom_fields"`
	Rider            RiderFields `json:"rider_custom_fields"`
	Coach            *Coach      `json:"coach,omitempty"`
	Submitter        *Submitter  `json:"engageur,omitempty"`
}
