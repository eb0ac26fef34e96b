// Package parser turns a federation competition XML export into a
// model.ParseResult.
package parser

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/dedupe"
	"github.com/okian/ffebridge/internal/domain/derive"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/domain/normalize"
	"github.com/okian/ffebridge/pkg/logger"
)

// Element and attribute names of the federation export.
const (
	elConcours    = "concours"
	elEpreuve     = "epreuve"
	elEngagement  = "engagement"
	elOrganizer   = "organisateur"
	elRider       = "cavalier"
	elHorse       = "equide"
	elFather      = "pere"
	elMother      = "mere"
	elCoach       = "coach"
	elSubmitter   = "engageur"
	attrNum       = "num"
	attrName      = "nom"
	attrFirstName = "prenom"
)

// Parser is stateless; one instance may serve concurrent calls.
type Parser struct {
	log logger.Logger
	now func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock overrides the clock used to derive rider age categories.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type collector struct {
	people    *dedupe.Index[model.Person]
	officials *dedupe.Index[model.Official]
	horses    *dedupe.Index[model.Horse]
	clubs     *dedupe.Index[model.Club]
	comps     *dedupe.Index[model.Competition]
}

// Parse reads one XML document. Every natural key keeps the first record
// seen in document order.
func (p *Parser) Parse(ctx context.Context, data []byte) (*model.ParseResult, error) {
	root, err := decode(data)
	if err != nil {
		return nil, err
	}

	concoursEl, epreuves, shape := detect(root)
	p.log.Debug(ctx, "xml structure detected",
		logger.String("shape", shape),
		logger.Int("epreuves", len(epreuves)))
	if len(epreuves) == 0 {
		return nil, &ParseError{Reason: "no epreuve element found"}
	}

	res := &model.ParseResult{Starts: make(map[string][]model.Start)}
	if concoursEl != nil {
		res.Concours = concoursInfo(concoursEl)
	} else {
		res.Concours = concoursInfo(root)
	}

	col := collector{
		people:    dedupe.NewIndex[model.Person](),
		officials: dedupe.NewIndex[model.Official](),
		horses:    dedupe.NewIndex[model.Horse](),
		clubs:     dedupe.NewIndex[model.Club](),
		comps:     dedupe.NewIndex[model.Competition](dedupe.WithCapacity(len(epreuves))),
	}

	for _, ep := range epreuves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		comp := competition(ep, res.Concours)
		comp.Officials = officials(ep)

		labels := make([]string, 0, len(comp.Officials))
		for _, o := range comp.Officials {
			labels = append(labels, normalize.JudgeLabel(o.FirstName, o.LastName))
			col.officials.Insert(ctx, o.License, o)
		}
		comp.JudgeList = strings.Join(labels, ", ")

		if !col.comps.Insert(ctx, comp.ForeignID, comp) {
			p.log.Warn(ctx, "duplicate epreuve ignored", logger.String("competition", comp.ForeignID))
			continue
		}

		starts := make([]model.Start, 0)
		for _, eng := range ep.children(elEngagement) {
			starts = append(starts, p.engagement(ctx, eng, comp, &col))
		}
		res.Starts[comp.ForeignID] = starts
		p.log.Debug(ctx, "epreuve parsed",
			logger.String("competition", comp.ForeignID),
			logger.String("name", comp.Name),
			logger.Int("starts", len(starts)))
	}

	res.Competitions = col.comps.Items()
	res.People = col.people.Items()
	res.Officials = col.officials.Items()
	res.Horses = col.horses.Items()
	res.Clubs = col.clubs.Items()

	if err := res.Validate(); err != nil {
		return nil, &ParseError{Reason: "inconsistent result", Err: err}
	}

	st := res.Stats()
	p.log.Info(ctx, "xml parsed",
		logger.String("concours", res.Concours.Num),
		logger.Int("competitions", st.Competitions),
		logger.Int("people", st.People),
		logger.Int("officials", st.Officials),
		logger.Int("horses", st.Horses),
		logger.Int("clubs", st.Clubs),
		logger.Int("starts", st.TotalStarts),
		logger.Int("terrain", st.Terrain),
		logger.Int("invitation", st.Invitation))
	return res, nil
}

// detect finds the concours element and the epreuves, trying the shapes in
// order: concours root, concours child, any epreuve in the document, an
// epreuve root.
func detect(root *node) (*node, []*node, string) {
	var concoursEl *node
	var epreuves []*node
	shape := "search"

	switch {
	case root.name() == elConcours:
		concoursEl, shape = root, "concours-root"
		epreuves = root.children(elEpreuve)
	case root.child(elConcours) != nil:
		concoursEl, shape = root.child(elConcours), "concours-child"
		epreuves = concoursEl.children(elEpreuve)
	}
	if len(epreuves) == 0 {
		epreuves = root.descendants(elEpreuve)
	}
	if len(epreuves) == 0 && root.name() == elEpreuve {
		epreuves, shape = []*node{root}, "epreuve-root"
	}
	return concoursEl, epreuves, shape
}

func concoursInfo(n *node) model.Concours {
	c := model.Concours{
		Num:        strings.TrimSpace(n.attr(attrNum)),
		Name:       normalize.Text(n.attr(attrName)),
		Department: n.attr("departement"),
		StartDate:  n.attr("date_debut"),
		EndDate:    n.attr("date_fin"),
	}
	if org := n.child(elOrganizer); org != nil {
		c.Organizer = model.Organizer{
			Num:  org.attr(attrNum),
			Name: normalize.Text(org.attr(attrName)),
		}
	}
	return c
}

func competition(ep *node, info model.Concours) model.Competition {
	num := strings.TrimSpace(ep.attr(attrNum))
	name := normalize.Text(ep.attr("nom_categorie"))
	protocol := ep.attr("id_protocole_version")

	c := model.Competition{
		ForeignID:       normalize.CompetitionID(info.Num, num),
		ConcoursNum:     info.Num,
		Num:             num,
		Name:            name,
		Date:            ep.attr("date"),
		StartTime:       ep.attr("heure_debut"),
		Level:           codes.DefaultLevel,
		Discipline:      codes.DisciplineFromFFE(ep.attr("discipline")),
		DisciplineFFE:   ep.attr("discipline"),
		DisciplineLabel: normalize.Text(ep.attr("discipline_libelle")),
		Category:        ep.attr("categorie"),
		ScaleCode:       ep.attr("code_bareme"),
		ScaleName:       normalize.Text(ep.attr("nom_bareme")),
		EntryFee:        toFloat(ep.attr("montant_eng")),
		PrizeMoney:      toFloat(ep.attr("dotation_epreuve")),
		EntryCount:      toInt(ep.attr("nbr_engages")),
		Team:            ep.attr("epreuve_equipe") == "O",
		ProtocolVersion: protocol,
	}
	if id, ok := codes.JudgementID(protocol); ok {
		c.JudgementID = &id
	}
	return c
}

// officials reads profil/officiels/officiel; entries without a license are
// dropped.
func officials(ep *node) []model.Official {
	list := ep.path("profil", "officiels")
	if list == nil {
		return nil
	}
	var out []model.Official
	for _, o := range list.children("officiel") {
		lic := strings.TrimSpace(o.attr("licence"))
		if lic == "" {
			continue
		}
		out = append(out, model.Official{
			License:      normalize.License(lic),
			LastName:     normalize.Text(o.attr(attrName)),
			FirstName:    normalize.Text(o.attr(attrFirstName)),
			FunctionName: normalize.Text(o.attr("nom_fonction")),
			FunctionCode: o.attr("code_fonction"),
			MinLevel:     o.attr("niv_min"),
			MinCount:     toInt(o.attr("nb_min")),
			MaxCount:     toInt(o.attr("nb_max")),
			Mandatory:    toInt(o.attr("obl_resus")),
		})
	}
	return out
}

func (p *Parser) engagement(ctx context.Context, eng *node, comp model.Competition, col *collector) model.Start {
	rider := eng.child(elRider)
	horse := eng.child(elHorse)

	var lic, sire string
	if rider != nil {
		lic = rider.attr("lic")
	}
	if horse != nil {
		sire = horse.attr("sire")
	}
	lic = normalize.License(lic)
	sire = normalize.Sire(sire)

	in := derive.Engagement{
		Terrain:        eng.attr("terrain"),
		Bib:            toInt(eng.attr("dossard")),
		Invitation:     eng.attr("invitation_organisateur"),
		CompetitionFee: comp.EntryFee,
	}
	if fee := strings.TrimSpace(eng.attr("montant_eng")); fee != "" {
		in.Fee = model.Num(toFloat(fee))
	}

	st := model.Start{
		ForeignID:        normalize.StartID(lic, sire, comp.ForeignID),
		CompetitionID:    comp.ForeignID,
		RiderLicense:     lic,
		HorseSire:        sire,
		Bib:              in.Bib,
		OutOfCompetition: eng.attr("hors_classement") == "1",
		Role:             eng.attr("role"),
		Performance:      eng.attr("iperf_couple"),
	}

	if sub := eng.child(elSubmitter); sub != nil {
		kind := sub.attr("type")
		if kind == "" {
			kind = sub.attr("type_engageur")
		}
		in.Submitter = &derive.Submitter{Num: strings.TrimSpace(sub.attr(attrNum)), Type: kind}
		st.Submitter = &model.Submitter{
			Type:      sub.attr("type_engageur"),
			LastName:  normalize.Text(sub.attr(attrName)),
			FirstName: normalize.Text(sub.attr(attrFirstName)),
			Num:       sub.attr(attrNum),
		}
	}
	if c := eng.child(elCoach); c != nil && strings.TrimSpace(c.attr("lic")) != "" {
		st.Coach = &model.Coach{
			License:   strings.TrimSpace(c.attr("lic")),
			LastName:  normalize.Text(c.attr(attrName)),
			FirstName: normalize.Text(c.attr(attrFirstName)),
		}
	}

	st.Fields = derive.StartFields(in)
	st.Rider = derive.RiderFields(in)

	if rider != nil {
		person := p.person(rider, lic, st.Rider)
		if !col.people.Insert(ctx, lic, person) {
			p.log.Debug(ctx, "rider already known", logger.String("license", lic))
		}
		if num := strings.TrimSpace(rider.attr("club")); num != "" {
			col.clubs.Insert(ctx, num, model.Club{
				Num:        num,
				Name:       normalize.Text(rider.attr("nom_club")),
				CRE:        rider.attr("cre"),
				Region:     rider.attr("region"),
				RegionName: normalize.Text(rider.attr("nom_region")),
				Department: rider.attr("departement_cavalier"),
			})
		}
	}
	if horse != nil {
		col.horses.Insert(ctx, sire, horseRecord(horse, sire))
	}
	return st
}

func (p *Parser) person(n *node, lic string, fields model.RiderFields) model.Person {
	first := normalize.Text(n.attr(attrFirstName))
	person := model.Person{
		License:        lic,
		LastName:       normalize.Text(n.attr(attrName)),
		FirstName:      first,
		BirthDate:      n.attr("dnaiss"),
		Title:          n.attr("titre_cavalier"),
		FEINumber:      n.attr("numero_fei"),
		Category:       n.attr("categorie"),
		AgeCode:        codes.AgeCode(strings.TrimSpace(n.attr("code_age"))),
		AgeLabel:       normalize.Text(n.attr("libelle_age")),
		Club:           strings.TrimSpace(n.attr("club")),
		ClubName:       normalize.Text(n.attr("nom_club")),
		CRE:            n.attr("cre"),
		Region:         n.attr("region"),
		RegionName:     normalize.Text(n.attr("nom_region")),
		Department:     n.attr("departement_cavalier"),
		DepartmentName: normalize.Text(n.attr("nom_departement_cavalier")),
		Fields:         fields,
	}
	if person.AgeCode == "" {
		person.AgeCode = codes.AgeCodeFor(parseDate(person.BirthDate), p.now())
	}
	if person.AgeLabel == "" {
		person.AgeLabel = person.AgeCode.Label()
	}
	if person.Title == "" {
		person.Title = codes.Titre("", first)
	}
	if person.DepartmentName == "" && person.Department != "" {
		person.DepartmentName = codes.DepartmentName(person.Department)
	}
	return person
}

func horseRecord(n *node, sire string) model.Horse {
	h := model.Horse{
		Sire:            sire,
		Name:            normalize.Text(n.attr(attrName)),
		BirthDate:       n.attr("dnaiss"),
		Age:             toInt(n.attr("equide_age")),
		Height:          n.attr("taille"),
		Breed:           normalize.Text(n.attr("race")),
		BreedCode:       n.attr("code_race"),
		Coat:            normalize.Text(n.attr("robe")),
		CoatCode:        n.attr("code_robe"),
		Sex:             normalize.Text(n.attr("sexe")),
		Transponder:     n.attr("transpondeur"),
		FEIID:           n.attr("equide_fei"),
		FEIPassport:     n.attr("passeport_fei"),
		FEIRegistration: n.attr("enregistrement_fei"),
		Earnings:        toFloat(n.attr("equide_gain")),
		CountryCode:     n.attr("equide_code_pays"),
		CountryName:     normalize.Text(n.attr("equide_libelle_pays")),
		Breeder:         normalize.Text(n.attr("eleveur")),
		Owner:           normalize.Text(n.attr("proprietaire")),
	}
	h.Gender = codes.HorseGender(h.Sex)
	if h.BreedCode == "" {
		h.BreedCode = codes.Breed(h.Breed)
	}
	if h.CoatCode == "" {
		h.CoatCode = codes.Color(h.Coat)
	}
	if f := n.child(elFather); f != nil {
		h.Father = ancestor(f)
	}
	if m := n.child(elMother); m != nil {
		h.Mother = ancestor(m)
		if mf := m.child(elFather); mf != nil {
			h.Mother.Father = ancestor(mf)
		}
	}
	return h
}

func ancestor(n *node) *model.Ancestor {
	return &model.Ancestor{
		Name:      normalize.Text(n.attr(attrName)),
		BreedCode: n.attr("race_code"),
		Breed:     normalize.Text(n.attr("race")),
	}
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006-01-02T15:04:05", "20060102"}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toInt reads the leading integer of s; anything unparsable is 0.
func toInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// toFloat accepts a dot or comma decimal separator; anything unparsable is 0.
func toFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
