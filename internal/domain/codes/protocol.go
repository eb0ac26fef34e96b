package codes

import "strings"

// protocolJudgements maps the federation protocol version to the platform
// judgement template.
var protocolJudgements = map[string]int{
	"1218": 11227,
	"1217": 10029,
	"1400": 11245,
	"1213": 10028,
	"1212": 11246,
	"1287": 10027,
	"1220": 10011,
	"1401": 10018,
	"1216": 10013,
	"1215": 10014,
	"1415": 10010,
	"1416": 10009,
	"1418": 10031,
	"1417": 10017,
	"1425": 12996,
	"1422": 10038,
	"1424": 10397,
	"1430": 10035,
	"1432": 10036,
	"1226": 10005,
	"1228": 13129,
	"1421": 10045,
	"1420": 10044,
}

// JudgementID looks up the judgement template for a protocol version.
// The boolean is false when no mapping exists; callers must leave the
// field unset in that case.
func JudgementID(protocol string) (int, bool) {
	id, ok := protocolJudgements[strings.TrimSpace(protocol)]
	return id, ok
}
