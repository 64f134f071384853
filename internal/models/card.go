package models

// Card is a single printing from the ArkhamDB public card feed. Cards that
// share a name at different experience levels appear as separate records;
// Code is unique across the whole catalog.
type Card struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	XP          int    `json:"xp"` // absent in the feed means level 0
	FactionName string `json:"faction_name"`
	TypeCode    string `json:"type_code"`
	TypeName    string `json:"type_name"`
	Traits      string `json:"traits"`
	Text        string `json:"text"`
	Slot        string `json:"slot"`
	Cost        *int   `json:"cost"` // cost 0 is real, null means no cost at all
	Permanent   bool   `json:"permanent"`

	Health                *int `json:"health"`
	Sanity                *int `json:"sanity"`
	HealthPerInvestigator bool `json:"health_per_investigator"`
	EnemyFight            *int `json:"enemy_fight"`
	EnemyEvade            *int `json:"enemy_evade"`
	EnemyDamage           *int `json:"enemy_damage"`
	EnemyHorror           *int `json:"enemy_horror"`
	Victory               *int `json:"victory"`

	SkillWillpower int `json:"skill_willpower"`
	SkillIntellect int `json:"skill_intellect"`
	SkillCombat    int `json:"skill_combat"`
	SkillAgility   int `json:"skill_agility"`
	SkillWild      int `json:"skill_wild"`

	ImageSrc string `json:"imagesrc"`
	URL      string `json:"url"`
}
