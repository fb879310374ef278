package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogConsistency(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, bot := range Bots {
		require.True(t, bot.IsBot)
		require.NotEmpty(t, bot.Role, "persona %s needs a behavioral role", bot.ID)
		require.False(t, seen[bot.ID], "duplicate persona id %s", bot.ID)
		seen[bot.ID] = true
	}

	// Every room roster must reference declared personas only.
	for _, room := range Rooms {
		require.NotEmpty(t, room.Participants, "room %s has no personas", room.ID)
		assert.False(t, room.IsPrivate)
		for _, p := range room.Participants {
			assert.True(t, seen[p.ID], "room %s references unknown persona %s", room.ID, p.ID)
		}
	}
}

func TestLookups(t *testing.T) {
	t.Parallel()

	room, ok := Room("room_chaos")
	require.True(t, ok)
	assert.Len(t, room.Participants, len(Bots))

	_, ok = Room("room_unknown")
	assert.False(t, ok)

	socrates, ok := Bot(SocratesBotID)
	require.True(t, ok)
	assert.Equal(t, "Sokrates", socrates.Name)
}
