package services

import (
	"fmt"
	"strings"

	"github.com/arkhambot/arkhambot/internal/models"
)

const (
	arkhamDBSiteURL = "https://www.arkhamdb.com"
	summaryFooter   = "I am a bot • GitHub: arkhambot/arkhambot"
)

// attrFieldName labels the unnamed attribute rows (zero-width space, so rich
// renderers show the value without a heading).
const attrFieldName = "\u200b"

// textReplacer converts ArkhamDB card-text markup to chat markdown.
var textReplacer = strings.NewReplacer(
	"[[", "**",
	"]]", "**",
	"<b>", "**",
	"</b>", "**",
	"<i>", "_",
	"</i>", "_",
)

// RenderText converts ArkhamDB markup to chat markdown: trait brackets and
// bold tags become **, italic tags become _.
func RenderText(text string) string {
	return textReplacer.Replace(text)
}

// RenderSkillIcons lists a card's test icons, e.g. "Willpower ×2, Wild ×1".
func RenderSkillIcons(c *models.Card) string {
	icons := []struct {
		label string
		count int
	}{
		{"Willpower", c.SkillWillpower},
		{"Intellect", c.SkillIntellect},
		{"Combat", c.SkillCombat},
		{"Agility", c.SkillAgility},
		{"Wild", c.SkillWild},
	}
	var pieces []string
	for _, icon := range icons {
		if icon.count > 0 {
			pieces = append(pieces, fmt.Sprintf("%s ×%d", icon.label, icon.count))
		}
	}
	return strings.Join(pieces, ", ")
}

// CardTitle is "Name" for level-0 printings and "Name (xp)" for upgrades.
func CardTitle(c *models.Card) string {
	if c.XP > 0 {
		return fmt.Sprintf("%s (%d)", c.Name, c.XP)
	}
	return c.Name
}

// RenderCard builds the platform-neutral summary for one card: title, body
// text, image, and the attribute fields a rich renderer lays out under it.
func RenderCard(c *models.Card) models.CardSummary {
	summary := models.CardSummary{
		Title:  CardTitle(c),
		URL:    c.URL,
		Text:   RenderText(c.Text),
		Footer: summaryFooter,
	}
	if c.ImageSrc != "" {
		summary.ImageURL = arkhamDBSiteURL + c.ImageSrc
	}

	// Faction stays hidden on Mythos cards; cost 0 still displays.
	var attrs []string
	if c.FactionName != "" && c.FactionName != "Mythos" {
		attrs = append(attrs, fmt.Sprintf("Faction: _%s_", c.FactionName))
	}
	if c.Cost != nil {
		attrs = append(attrs, fmt.Sprintf("Cost: _%d_", *c.Cost))
	}
	if c.TypeName != "" {
		attrs = append(attrs, fmt.Sprintf("Type: _%s_", c.TypeName))
	}
	if c.Slot != "" {
		attrs = append(attrs, fmt.Sprintf("Slot: _%s_", c.Slot))
	}
	if len(attrs) > 0 {
		summary.Fields = append(summary.Fields, models.SummaryField{Name: attrFieldName, Value: strings.Join(attrs, " • ")})
	}

	if c.Traits != "" {
		summary.Fields = append(summary.Fields, models.SummaryField{Name: "Traits", Value: fmt.Sprintf("_%s_", c.Traits)})
	}
	if icons := RenderSkillIcons(c); icons != "" {
		summary.Fields = append(summary.Fields, models.SummaryField{Name: "Test Icons", Value: icons})
	}

	if c.TypeCode == "enemy" {
		var stats []string
		if c.EnemyFight != nil {
			stats = append(stats, fmt.Sprintf("Fight: %d", *c.EnemyFight))
		}
		if c.EnemyEvade != nil {
			stats = append(stats, fmt.Sprintf("Evade: %d", *c.EnemyEvade))
		}
		if c.Health != nil {
			hp := fmt.Sprintf("%d", *c.Health)
			if c.HealthPerInvestigator {
				hp += " per investigator"
			}
			stats = append(stats, "Health: "+hp)
		}
		if c.EnemyDamage != nil {
			stats = append(stats, fmt.Sprintf("Damage: %d", *c.EnemyDamage))
		}
		if c.EnemyHorror != nil {
			stats = append(stats, fmt.Sprintf("Horror: %d", *c.EnemyHorror))
		}
		if c.Victory != nil {
			stats = append(stats, fmt.Sprintf("Victory %d", *c.Victory))
		}
		if len(stats) > 0 {
			summary.Fields = append(summary.Fields, models.SummaryField{Name: "Enemy", Value: strings.Join(stats, " • ")})
		}
	} else if c.Health != nil || c.Sanity != nil {
		var hs []string
		if c.Health != nil {
			hs = append(hs, fmt.Sprintf("Health: %d", *c.Health))
		}
		if c.Sanity != nil {
			hs = append(hs, fmt.Sprintf("Sanity: %d", *c.Sanity))
		}
		summary.Fields = append(summary.Fields, models.SummaryField{Name: attrFieldName, Value: strings.Join(hs, " • ")})
	}

	return summary
}
