package model

import (
	"bytes"
	"encoding/json"
)

// RemoteCompetition is a record of competitions.json.
type RemoteCompetition struct {
	Kq         ID     `json:"kq"`
	ForeignID  string `json:"foreignid"`
	Name       string `json:"klass"`
	Num        ID     `json:"clabb"`
	Discipline string `json:"z"`
	Level      string `json:"x"`
	Date       string `json:"datum"`
	StartTime  string `json:"klock"`
	PrizeMoney Number `json:"prsum1"`
	ScaleCode  string `json:"code_bareme"`
	BaseTime   Number `json:"temps_base"`

	JudgeC string `json:"domarec_kb"`
	JudgeH string `json:"domareh_kb"`
	JudgeM string `json:"domarem_kb"`
	JudgeE string `json:"domaree_kb"`
	JudgeB string `json:"domareb_kb"`

	JudgeCIDs []ID `json:"ckb"`
	JudgeHIDs []ID `json:"hkb"`
	JudgeMIDs []ID `json:"mkb"`
	JudgeEIDs []ID `json:"ekb"`
	JudgeBIDs []ID `json:"bkb"`
}

// JudgePosition is one judge seat of a competition.
type JudgePosition struct {
	Letter string
	Label  string
	IDs    []ID
}

// JudgePositions lists the C, H, M, E, B seats in that order.
func (c RemoteCompetition) JudgePositions() []JudgePosition {
	return []JudgePosition{
		{Letter: "C", Label: c.JudgeC, IDs: c.JudgeCIDs},
		{Letter: "H", Label: c.JudgeH, IDs: c.JudgeHIDs},
		{Letter: "M", Label: c.JudgeM, IDs: c.JudgeMIDs},
		{Letter: "E", Label: c.JudgeE, IDs: c.JudgeEIDs},
		{Letter: "B", Label: c.JudgeB, IDs: c.JudgeBIDs},
	}
}

// RemoteResult is a record of competitions/{id}/results.json.
type RemoteResult struct {
	ID        ID     `json:"id"`
	ForeignID string `json:"foreign_id"`
	Start     ID     `json:"st"`
	Rank      Number `json:"re"`
	Or        string `json:"or"`
	A         string `json:"a"`
	RiderID   ID     `json:"rnr"`
	HorseID   ID     `json:"hnr"`
	Prize     Number `json:"premie"`

	// Jumping.
	Faults       Number `json:"p"`
	Faults2      Number `json:"p2"`
	Time         Number `json:"t"`
	Time2        Number `json:"t2"`
	F            Number `json:"f"`
	BaseFaults   Number `json:"grundf"`
	BaseTime     Number `json:"grundt"`
	Indice       ID     `json:"indice"`
	Presentation Number `json:"presentation"`

	// Dressage.
	PointsC    Number `json:"ct"`
	PointsH    Number `json:"ht"`
	PointsM    Number `json:"mt"`
	PointsB    Number `json:"bt"`
	PointsE    Number `json:"et"`
	PercentC   Number `json:"csp"`
	PercentH   Number `json:"hsp"`
	PercentM   Number `json:"msp"`
	PercentB   Number `json:"bsp"`
	PercentE   Number `json:"esp"`
	Percentage Number `json:"gproc"`
	Total      Number `json:"psum"`

	// Eventing.
	DressagePoints Number `json:"dr_points"`
	XCObstacles    Number `json:"xc_obs_points"`
	XCTime         Number `json:"xc_time_points"`
	SJObstacles    Number `json:"sj_obs_points"`
	SJTime         Number `json:"sj_time_points"`
	TotalPoints    Number `json:"total_points"`
	Falls          ID     `json:"falls"`

	// Driving.
	DressPenalty      Number `json:"dress_pen"`
	DressIndice       ID     `json:"dress_indice"`
	MarathonPenalty   Number `json:"marathon_pen"`
	MarathonTimePen   Number `json:"marathon_time_pen"`
	MarathonIndice    ID     `json:"marathon_indice"`
	ManiabPenalty     Number `json:"maniab_pen"`
	ManiabTimePenalty Number `json:"maniab_time_pen"`
	ManiabIndice      ID     `json:"maniab_indice"`
	DrivingTotal      Number `json:"total"`

	RiderFirstName string `json:"rider_first_name,omitempty"`
	RiderLastName  string `json:"rider_last_name,omitempty"`
	HorseName      string `json:"horse_name,omitempty"`
}

// Ranked reports a rank other than the unranked sentinel.
func (r RemoteResult) Ranked() bool {
	return r.Rank.Set && r.Rank.Int() != 999
}

// HasScores reports whether any score field carries a value.
func (r RemoteResult) HasScores() bool {
	for _, n := range []Number{
		r.Faults, r.Faults2, r.Time, r.Time2, r.F, r.BaseFaults, r.BaseTime,
		r.PointsC, r.PointsH, r.PointsM, r.PointsB, r.PointsE,
		r.PercentC, r.PercentH, r.PercentM, r.PercentB, r.PercentE,
		r.Percentage, r.Total,
		r.DressagePoints, r.XCObstacles, r.XCTime, r.SJObstacles, r.SJTime, r.TotalPoints,
		r.DressPenalty, r.MarathonPenalty, r.MarathonTimePen, r.ManiabPenalty, r.ManiabTimePenalty, r.DrivingTotal,
	} {
		if n.Set {
			return true
		}
	}
	return false
}

// RemoteClubRef is the club attached to a platform person. The platform
// sends either an object or a bare id.
type RemoteClubRef struct {
	ID        ID     `json:"id"`
	ForeignID string `json:"foreign_id"`
	Name      string `json:"name"`
}

// UnmarshalJSON accepts an object or a scalar id.
func (c *RemoteClubRef) UnmarshalJSON(b []byte) error {
	*c = RemoteClubRef{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain RemoteClubRef
		return json.Unmarshal(b, (*plain)(c))
	}
	return c.ID.UnmarshalJSON(b)
}

// Num is the federation club number carried in the foreign id, falling
// back to the platform id.
func (c RemoteClubRef) Num() string {
	const prefix = "FFE_CLUB_"
	if len(c.ForeignID) > len(prefix) && c.ForeignID[:len(prefix)] == prefix {
		return c.ForeignID[len(prefix):]
	}
	return string(c.ID)
}

// RemoteRiderFields are the person custom fields written by the import.
type RemoteRiderFields struct {
	Account ID `json:"compte_engageur"`
	License ID `json:"licence_engageur"`
}

// RemotePerson is a record of people.json.
type RemotePerson struct {
	ID           ID                `json:"id"`
	Rnr          ID                `json:"rnr"`
	License      string            `json:"rlic"`
	ForeignID    string            `json:"foreign_id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	FEIID        string            `json:"fei_id"`
	Official     Flag              `json:"official"`
	Club         *RemoteClubRef    `json:"club"`
	CustomFields RemoteRiderFields `json:"custom_fields"`
}

// RemoteHorse is a record of horses.json.
type RemoteHorse struct {
	ID          ID     `json:"id"`
	Hnr         ID     `json:"hnr"`
	Sire        string `json:"regnr"`
	ForeignID   string `json:"foreign_id"`
	Name        string `json:"hast"`
	Sex         string `json:"kon"`
	Breed       string `json:"breed"`
	Father      string `json:"far"`
	Mother      string `json:"mor"`
	Owner       string `json:"agare"`
	BornYear    ID     `json:"fo"`
	FEIPassport string `json:"feipass"`
}

// RemoteClub is a record of clubs.json.
type RemoteClub struct {
	ID        ID     `json:"id"`
	ForeignID string `json:"foreign_id"`
	Name      string `json:"name"`
}

// RemoteStartFields are the start custom fields written by the import.
type RemoteStartFields struct {
	Terrain    Flag `json:"engagement_terrain"`
	Invitation Flag `json:"invitation_organisateur"`
}

// RemoteStart is a record of competitions/{id}/starts.json.
type RemoteStart struct {
	ID           ID                `json:"id"`
	ForeignID    string            `json:"foreign_id"`
	Start        ID                `json:"st"`
	RiderID      ID                `json:"rnr"`
	HorseID      ID                `json:"hnr"`
	CustomFields RemoteStartFields `json:"custom_fields"`
}

// CustomFieldDef describes one platform custom field.
type CustomFieldDef struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Align   string `json:"align,omitempty"`
	Publish bool   `json:"publish"`
}

// Settings is the subset of settings.json the bridge reads and patches.
type Settings struct {
	CustomFieldNames map[string]map[string]CustomFieldDef `json:"custom_field_names"`
}

// HasCustomField reports whether scope/key is defined.
func (s Settings) HasCustomField(scope, key string) bool {
	fields, ok := s.CustomFieldNames[scope]
	if !ok {
		return false
	}
	_, ok = fields[key]
	return ok
}
