package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillpath/backend/config"
	"skillpath/backend/internal/api/handler"
	"skillpath/backend/internal/api/middleware"
	"skillpath/backend/pkg/jwt"
	"skillpath/backend/pkg/redis"
)

// maxBodyBytes 全局请求体大小上限（1MB）
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 时间线模块
			timelines := authorized.Group("/timelines")
			{
				timelines.POST("", h.Timeline.Generate)
				timelines.POST("/revise", h.Timeline.Revise)
				timelines.POST("/approve", h.Timeline.Approve)
				timelines.GET("/user/:user_id", h.Timeline.ListByUser)
				timelines.GET("/:id", h.Timeline.Get)
				timelines.GET("/:id/export/ics", h.Export.ExportICS)
				timelines.GET("/:id/export/xlsx", h.Export.ExportExcel)
			}

			// 完成凭证模块
			proofs := authorized.Group("/proofs")
			{
				proofs.POST("", h.Timeline.SubmitProof)
				proofs.POST("/review", middleware.RoleAuth("manager", "admin"), h.Timeline.ReviewProof)
				proofs.GET("/event/:event_id", h.Timeline.ListProofsByEvent)
				proofs.GET("/user/:user_id", h.Timeline.ListProofsByUser)
			}

			// 顾问分析模块
			advisor := authorized.Group("/advisor")
			{
				advisor.POST("/analyze", h.Advisor.Analyze)
				advisor.POST("/skill-gap", h.Advisor.SkillGap)
			}

			// 导师模式
			mentor := authorized.Group("/mentor")
			{
				mentor.POST("/suggest", h.Mentor.Suggest)
				mentor.POST("/reset", h.Mentor.Reset)
				mentor.POST("/summarize-feedback", h.Mentor.SummarizeFeedback)
			}

			// 入职问答模式
			onboarding := authorized.Group("/onboarding")
			{
				onboarding.POST("/chat", h.Onboarding.Chat)
				onboarding.POST("/reset", h.Onboarding.Reset)
				onboarding.POST("/search", h.Onboarding.Search)
			}

			// 沟通演练模式
			practice := authorized.Group("/practice")
			{
				practice.POST("/start", h.Practice.Start)
				practice.POST("/respond", h.Practice.Respond)
				practice.POST("/reset", h.Practice.Reset)
			}

			// 课程搜索模块
			courses := authorized.Group("/courses")
			{
				courses.POST("/search", h.CourseSearch.Search)
				courses.GET("/search/health", h.CourseSearch.Health)
			}
		}
	}

	return r
}
