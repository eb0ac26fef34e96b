package normalize

import "strings"

// Foreign id prefixes shared with the platform.
const (
	PersonPrefix = "FFE_"
	ClubPrefix   = "FFE_CLUB_"
	StartPrefix  = "START_"
)

// CompetitionID is "{concours}_{epreuve}".
func CompetitionID(concours, epreuve string) string {
	return strings.TrimSpace(concours) + "_" + strings.TrimSpace(epreuve)
}

// PersonID keys riders and officials by normalized license.
func PersonID(license string) string { return PersonPrefix + license }

// HorseID keys horses by normalized SIRE.
func HorseID(sire string) string { return PersonPrefix + sire }

// ClubID keys clubs by federation number.
func ClubID(num string) string { return ClubPrefix + strings.TrimSpace(num) }

// StartID is "START_{license}_{sire}_{competition}".
func StartID(license, sire, competitionID string) string {
	return StartPrefix + license + "_" + sire + "_" + competitionID
}
