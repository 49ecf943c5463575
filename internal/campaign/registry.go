package campaign

import (
	"log/slog"
	"sort"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

var registry = make(map[models.CampaignID]*Definition)

// Register associates a campaign ID with its definition. Later
// registrations replace earlier ones.
func Register(def *Definition) {
	slog.Debug("Campaign.Register: registering campaign", "id", def.ID, "name", def.Name)
	registry[def.ID] = def
}

// Get retrieves the definition for a campaign ID.
func Get(id models.CampaignID) (*Definition, bool) {
	def, ok := registry[id]
	return def, ok
}

// List returns all registered definitions ordered by ID.
func List() []*Definition {
	defs := make([]*Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Register built-in campaigns
func init() {
	Register(newLegacyDefinition())
	Register(newMedicalDefinition())
	Register(newComboDefinition())
}
