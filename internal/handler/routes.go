package handler

import (
	"net/http"
	"time"

	"gachaactu/backend/internal/auth"
	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/maintenance"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public API, the auth endpoints and the back-office
// on r. Public GET responses are cached for ttl.
func RegisterRoutes(r *gin.Engine, ttl time.Duration) {
	r.Use(maintenance.Middleware())

	// Health check endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET(maintenance.NoticePath, maintenance.NoticePage)

	cached := func(tags ...string) gin.HandlerFunc {
		return cache.Middleware(cache.Default, ttl, tags...)
	}

	api := r.Group("/api")
	{
		api.GET("/maintenance", GetMaintenanceStatus)

		articles := api.Group("/articles", cached(cache.TagArticles))
		{
			articles.GET("", GetArticles)
			articles.GET("/:slug", auth.OptionalAuthMiddleware(), GetArticleBySlug)
		}

		guides := api.Group("/guides", cached(cache.TagGuides))
		{
			guides.GET("", GetGuides)
			guides.GET("/:slug", auth.OptionalAuthMiddleware(), GetGuideBySlug)
		}

		games := api.Group("/games", cached(cache.TagGames))
		{
			games.GET("", GetGames)
			games.GET("/:slug", GetGameBySlug)
		}
		api.GET("/platforms", cached(cache.TagGames), GetPlatforms)
		api.GET("/tags", cached(cache.TagTags), GetTags)
		api.GET("/videos", cached(cache.TagVideos), GetVideos)

		tierLists := api.Group("/tier-lists", cached(cache.TagTierLists))
		{
			tierLists.GET("", GetTierLists)
			tierLists.GET("/:slug", GetTierListBySlug)
		}

		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", RegisterUser)
			authRoutes.POST("/login", LoginUser)
			authRoutes.POST("/logout", LogoutUser)
			authRoutes.GET("/me", auth.AuthMiddleware(), GetMe)
		}

		// Back-office routes (protected by auth and editor check)
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.EditorMiddleware())
		{
			adminArticles := adminRoutes.Group("/articles")
			{
				adminArticles.GET("", AdminGetArticles)
				adminArticles.GET("/:id", AdminGetArticle)
				adminArticles.POST("", CreateArticle)
				adminArticles.PUT("/:id", UpdateArticle)
				adminArticles.DELETE("/:id", DeleteArticle)
			}

			adminGuides := adminRoutes.Group("/guides")
			{
				adminGuides.GET("", AdminGetGuides)
				adminGuides.GET("/:id", AdminGetGuide)
				adminGuides.POST("", CreateGuide)
				adminGuides.PUT("/:id", UpdateGuide)
				adminGuides.DELETE("/:id", DeleteGuide)
			}

			adminGames := adminRoutes.Group("/games")
			{
				adminGames.GET("", GetGames)
				adminGames.POST("", CreateGame)
				adminGames.PUT("/:id", UpdateGame)
				adminGames.DELETE("/:id", DeleteGame)
			}

			// Tags CRUD
			tags := adminRoutes.Group("/tags")
			{
				tags.GET("", GetTags)
				tags.POST("", CreateTag)
				tags.PUT("/:id", UpdateTag)
				tags.DELETE("/:id", DeleteTag)
			}

			keywords := adminRoutes.Group("/seo-keywords")
			{
				keywords.GET("", GetSeoKeywords)
				keywords.POST("", CreateSeoKeyword)
				keywords.DELETE("/:id", DeleteSeoKeyword)
			}

			videos := adminRoutes.Group("/videos")
			{
				videos.GET("", AdminGetVideos)
				videos.POST("", CreateVideo)
				videos.PUT("/:id", UpdateVideo)
				videos.DELETE("/:id", DeleteVideo)
			}

			adminTierLists := adminRoutes.Group("/tier-lists")
			{
				adminTierLists.GET("", GetTierLists)
				adminTierLists.GET("/:id", AdminGetTierList)
				adminTierLists.POST("", CreateTierList)
				adminTierLists.PUT("/:id", UpdateTierList)
				adminTierLists.DELETE("/:id", DeleteTierList)
			}

			// Admin only
			admins := adminRoutes.Group("", auth.AdminMiddleware())
			{
				admins.GET("/users", ListUsers)
				admins.PUT("/users/:id/role", UpdateUserRole)
				admins.GET("/maintenance", AdminGetMaintenance)
				admins.PUT("/maintenance", UpdateMaintenance)
				admins.POST("/revalidate", Revalidate)
			}
		}
	}
}
