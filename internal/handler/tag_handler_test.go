package handler

import (
	"net/http"
	"testing"

	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	s := setupServer(t)
	_, token := s.createUser("editor", models.RoleEditor)

	reroll := s.createTag(token, "Reroll")
	assert.Equal(t, "reroll", reroll.Slug)
	s.createTag(token, "F2P")

	t.Run("DuplicateName", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/admin/tags", token, TagInput{Name: "Reroll", Slug: "reroll-2"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("PublicListSortedByName", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/tags", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		tags := decode[[]TagResponse](t, w)
		require.Len(t, tags, 2)
		assert.Equal(t, "F2P", tags[0].Name)
		assert.Equal(t, "Reroll", tags[1].Name)
	})

	t.Run("Update", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/admin/tags/"+itoa(reroll.ID), token, TagInput{Name: "Rerolling"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "rerolling", decode[TagResponse](t, w).Slug)
	})

	t.Run("DeleteDetachesArticles", func(t *testing.T) {
		article := s.createArticle(token, ArticleInput{Title: "Tagged", TagIDs: []uint{reroll.ID}})
		require.Len(t, article.Tags, 1)

		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/admin/tags/"+itoa(reroll.ID), token, nil).Code)

		var links int64
		require.NoError(t, database.DB.Model(&models.ArticleTag{}).Where("tag_id = ?", reroll.ID).Count(&links).Error)
		assert.Zero(t, links)

		w := s.do(http.MethodGet, "/api/articles/tagged", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[ArticleResponse](t, w).Tags)

		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/admin/tags/"+itoa(reroll.ID), token, nil).Code)
	})
}

func TestSeoKeywords(t *testing.T) {
	s := setupServer(t)
	_, token := s.createUser("editor", models.RoleEditor)

	w := s.do(http.MethodPost, "/api/admin/seo-keywords", token, SeoKeywordInput{Keyword: "Genshin Banner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	kw := decode[SeoKeywordResponse](t, w)
	assert.Equal(t, "genshin banner", kw.Keyword)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/admin/seo-keywords", token, SeoKeywordInput{Keyword: "genshin banner"}).Code)

	article := s.createArticle(token, ArticleInput{Title: "Keyworded", SeoKeywords: []string{"genshin banner"}})
	require.Equal(t, []string{"genshin banner"}, article.SeoKeywords)

	list := decode[[]SeoKeywordResponse](t, s.do(http.MethodGet, "/api/admin/seo-keywords", token, nil))
	require.Len(t, list, 1)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/admin/seo-keywords/"+itoa(kw.ID), token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/admin/seo-keywords/"+itoa(kw.ID), token, nil).Code)

	got := decode[ArticleResponse](t, s.do(http.MethodGet, "/api/admin/articles/"+itoa(article.ID), token, nil))
	assert.Empty(t, got.SeoKeywords)

	// The keyword can be created again after a hard delete.
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/admin/seo-keywords", token, SeoKeywordInput{Keyword: "genshin banner"}).Code)
}
