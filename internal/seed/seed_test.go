package seed

import (
	"strings"
	"testing"

	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const sample = `
platforms:
  - name: Nintendo Switch
    slug: switch
games:
  - name: Honkai Star Rail
    genre: Turn-based RPG
    developer: HoYoverse
    release_date: 2023-04-26
    platforms: [iOS, Android, PC]
  - name: Arknights
    platforms: [iOS, Android]
tags:
  - name: Reroll
  - name: Free to play
    slug: f2p
tier_lists:
  - title: HSR DPS
    game: honkai-star-rail
    entries:
      - {name: Acheron, tier: SS, role: DPS}
      - {name: Seele, tier: s}
`

func TestApply(t *testing.T) {
	db := database.OpenTest(t)

	file, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	res, err := Apply(db, file)
	require.NoError(t, err)
	assert.Equal(t, Result{Platforms: 1, Games: 2, Tags: 2, TierLists: 1}, res)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(4), count(&models.Platform{}))
	assert.Equal(t, int64(2), count(&models.Game{}))
	assert.Equal(t, int64(2), count(&models.Tag{}))

	var game models.Game
	require.NoError(t, db.Preload("Platforms").Where("slug = ?", "honkai-star-rail").First(&game).Error)
	assert.Len(t, game.Platforms, 3)
	require.NotNil(t, game.ReleaseDate)
	assert.Equal(t, 2023, game.ReleaseDate.Year())

	var list models.TierList
	require.NoError(t, db.Where("slug = ?", "hsr-dps").First(&list).Error)
	require.NotNil(t, list.GameID)
	assert.Equal(t, game.ID, *list.GameID)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "S", list.Entries[1].Tier)

	t.Run("Idempotent", func(t *testing.T) {
		_, err := Apply(db, file)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count(&models.Platform{}))
		assert.Equal(t, int64(2), count(&models.Game{}))
		assert.Equal(t, int64(1), count(&models.TierList{}))
	})

	t.Run("RestoresSoftDeleted", func(t *testing.T) {
		require.NoError(t, db.Where("slug = ?", "f2p").Delete(&models.Tag{}).Error)
		assert.Equal(t, int64(1), count(&models.Tag{}))

		_, err := Apply(db, file)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count(&models.Tag{}))
	})
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("games:\n  - nom: typo\n"))
	assert.Error(t, err)

	file, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, file.Games)
}

func TestApplyRejectsBadTier(t *testing.T) {
	db := database.OpenTest(t)

	file, err := Parse(strings.NewReader("tier_lists:\n  - title: Broken\n    entries:\n      - {name: Kafka, tier: Z}\n"))
	require.NoError(t, err)

	_, err = Apply(db, file)
	assert.ErrorContains(t, err, "unknown tier")

	var n int64
	require.NoError(t, db.Model(&models.TierList{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEnsureAdmin(t *testing.T) {
	db := database.OpenTest(t)

	user, created, err := EnsureAdmin(db, "root", "Root@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "root@example.com", user.Email)

	require.NoError(t, db.Model(&user).Update("role", models.RoleUser).Error)

	again, created, err := EnsureAdmin(db, "root", "root@example.com", "battery-staple")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, models.RoleAdmin, again.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(again.PasswordHash), []byte("battery-staple")))

	_, _, err = EnsureAdmin(db, "x", "x@example.com", "short")
	assert.Error(t, err)
}
