package batch

import "github.com/okian/ffebridge/internal/domain/model"

// Custom field scopes and keys.
const (
	ScopeStart  = "start"
	ScopePerson = "person"

	FieldTerrain    = "engagement_terrain"
	FieldInvitation = "invitation_organisateur"
	FieldAccount    = "compte_engageur"
	FieldLicense    = "licence_engageur"
)

// CustomFieldSettings is the settings patch declaring the custom fields the
// start and person records carry.
func CustomFieldSettings() model.Settings {
	def := func(name, kind string) model.CustomFieldDef {
		return model.CustomFieldDef{Name: name, Type: kind, Align: "center", Publish: false}
	}
	return model.Settings{CustomFieldNames: map[string]map[string]model.CustomFieldDef{
		ScopeStart: {
			FieldTerrain:    def("Engagement Terrain", "bool"),
			FieldInvitation: def("Invitation Organisateur", "bool"),
		},
		ScopePerson: {
			FieldAccount: def("Compte Engageur", "string"),
			FieldLicense: def("Licence Engageur", "string"),
		},
	}}
}

// MissingCustomFields lists the expected "scope.key" entries absent from s.
func MissingCustomFields(s model.Settings) []string {
	var missing []string
	for _, f := range [][2]string{
		{ScopeStart, FieldTerrain},
		{ScopeStart, FieldInvitation},
		{ScopePerson, FieldAccount},
		{ScopePerson, FieldLicense},
	} {
		if !s.HasCustomField(f[0], f[1]) {
			missing = append(missing, f[0]+"."+f[1])
		}
	}
	return missing
}
