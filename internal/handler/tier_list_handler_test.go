package handler

import (
	"net/http"
	"testing"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowTiers(rows []TierRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Tier)
	}
	return out
}

func rowNames(row TierRow) []string {
	out := make([]string, 0, len(row.Entries))
	for _, e := range row.Entries {
		out = append(out, e.Name)
	}
	return out
}

func TestTierRows(t *testing.T) {
	entries := []models.TierEntry{
		{Name: "Xiangling", Tier: "A"},
		{Name: "Furina", Tier: "SS"},
		{Name: "Amber", Tier: "D"},
		{Name: "Bennett", Tier: "A"},
		{Name: "Nahida", Tier: "SS"},
	}

	t.Run("OrderedAndGrouped", func(t *testing.T) {
		rows := tierRows(entries, nil)
		assert.Equal(t, []string{"SS", "A", "D"}, rowTiers(rows))
		assert.Equal(t, []string{"Furina", "Nahida"}, rowNames(rows[0]))
		assert.Equal(t, []string{"Xiangling", "Bennett"}, rowNames(rows[1]))
	})

	t.Run("ShuffleStaysWithinTier", func(t *testing.T) {
		reverse := func(n int, swap func(i, j int)) {
			for i := 0; i < n/2; i++ {
				swap(i, n-1-i)
			}
		}
		rows := tierRows(entries, reverse)
		assert.Equal(t, []string{"SS", "A", "D"}, rowTiers(rows))
		assert.Equal(t, []string{"Nahida", "Furina"}, rowNames(rows[0]))
		assert.Equal(t, []string{"Bennett", "Xiangling"}, rowNames(rows[1]))
		assert.Equal(t, "Xiangling", entries[0].Name, "input is left untouched")
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, tierRows(nil, nil))
	})
}

func TestTierLists(t *testing.T) {
	s := setupServer(t)
	_, token := s.createUser("editor", models.RoleEditor)
	game := s.createGame(token, "Honkai Star Rail")

	input := TierListInput{
		Title:  "Best DPS",
		GameID: &game.ID,
		Entries: []TierEntryInput{
			{Name: "Seele", Tier: "S", Role: "DPS"},
			{Name: "Acheron", Tier: "SS", Role: "DPS"},
			{Name: "Herta", Tier: "C"},
			{Name: "Jingliu", Tier: "S"},
		},
	}

	w := s.do(http.MethodPost, "/api/admin/tier-lists", token, input)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[TierListResponse](t, w)
	assert.Equal(t, "best-dps", created.Slug)
	assert.Equal(t, 4, created.EntryCount)

	w = s.do(http.MethodGet, "/api/tier-lists/best-dps", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[TierListResponse](t, w)
	assert.Equal(t, []string{"SS", "S", "C"}, rowTiers(got.Rows))
	assert.Equal(t, []string{"Seele", "Jingliu"}, rowNames(got.Rows[1]))

	t.Run("ShuffledResponsesAreNotCached", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/tier-lists/best-dps?shuffle=true", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"SS", "S", "C"}, rowTiers(decode[TierListResponse](t, w).Rows))
		assert.Equal(t, "MISS", s.do(http.MethodGet, "/api/tier-lists/best-dps?shuffle=true", "", nil).Header().Get(cache.HeaderCache))
	})

	t.Run("InvalidTier", func(t *testing.T) {
		bad := input
		bad.Title = "Broken"
		bad.Entries = []TierEntryInput{{Name: "Kafka", Tier: "Z"}}
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/admin/tier-lists", token, bad).Code)
	})

	t.Run("MissingName", func(t *testing.T) {
		bad := input
		bad.Title = "Nameless"
		bad.Entries = []TierEntryInput{{Tier: "A"}}
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/admin/tier-lists", token, bad).Code)
	})

	t.Run("MarkupOnlyName", func(t *testing.T) {
		bad := input
		bad.Title = "Markup"
		bad.Entries = []TierEntryInput{{Name: "<i></i>", Tier: "S"}}
		w := s.do(http.MethodPost, "/api/admin/tier-lists", token, bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "entries[0].name")
	})

	t.Run("ListByGame", func(t *testing.T) {
		lists := decode[[]TierListResponse](t, s.do(http.MethodGet, "/api/tier-lists?game=honkai-star-rail", "", nil))
		require.Len(t, lists, 1)
		assert.Empty(t, lists[0].Rows)
	})

	t.Run("UpdateRevalidates", func(t *testing.T) {
		assert.Equal(t, "HIT", s.do(http.MethodGet, "/api/tier-lists/best-dps", "", nil).Header().Get(cache.HeaderCache))

		update := input
		update.Entries = []TierEntryInput{{Name: "Firefly", Tier: "SS"}}
		w := s.do(http.MethodPut, "/api/admin/tier-lists/"+itoa(created.ID), token, update)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.do(http.MethodGet, "/api/tier-lists/best-dps", "", nil)
		assert.Equal(t, "MISS", w.Header().Get(cache.HeaderCache))
		got := decode[TierListResponse](t, w)
		require.Len(t, got.Rows, 1)
		assert.Equal(t, "SS", got.Rows[0].Tier)
	})
}
