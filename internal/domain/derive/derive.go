// Package derive computes the custom fields attached to starts and riders.
package derive

import (
	"strings"

	"github.com/okian/ffebridge/internal/domain/model"
)

// TerrainBibThreshold is the highest bib of a regular entry; bibs above it
// are entries taken on the ground.
const TerrainBibThreshold = 500

// LicenseSubmitter is the submitter type that also carries a license.
const LicenseSubmitter = "licence"

// Engagement holds the raw engagement attributes the rules read.
type Engagement struct {
	// Terrain is the literal terrain attribute.
	Terrain string
	Bib     int
	// Invitation is the literal invitation_organisateur attribute.
	Invitation string
	// Fee is the engagement entry fee; unset when the engagement has none.
	Fee model.Number
	// CompetitionFee applies when Fee is unset.
	CompetitionFee float64
	Submitter      *Submitter
}

// Submitter is the engageur block.
type Submitter struct {
	Num  string
	Type string
}

// EntryFee resolves the fee used by the invitation rule.
func (e Engagement) EntryFee() float64 {
	return e.Fee.Or(e.CompetitionFee)
}

// StartFields applies the terrain and invitation rules. Each rule can only
// set its flag.
func StartFields(e Engagement) model.StartFields {
	var f model.StartFields
	if strings.TrimSpace(e.Terrain) == "true" {
		f.Terrain = true
	}
	if e.Bib > TerrainBibThreshold {
		f.Terrain = true
	}
	if strings.TrimSpace(e.Invitation) == "O" {
		f.Invitation = true
	}
	if e.EntryFee() == 0 {
		f.Invitation = true
	}
	return f
}

// RiderFields propagates the submitting account, and its license when the
// submitter type is a license.
func RiderFields(e Engagement) model.RiderFields {
	if e.Submitter == nil {
		return model.RiderFields{}
	}
	f := model.RiderFields{Account: e.Submitter.Num}
	if e.Submitter.Type == LicenseSubmitter {
		f.License = e.Submitter.Num
	}
	return f
}
