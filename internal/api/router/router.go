package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stamelosxp/upThesis-sub000/config"
	"github.com/stamelosxp/upThesis-sub000/internal/api/handler"
	"github.com/stamelosxp/upThesis-sub000/internal/api/middleware"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/pkg/jwt"
	"github.com/stamelosxp/upThesis-sub000/pkg/redis"
)

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
	r.Use(middleware.BodyLimit(cfg.Storage.MaxUploadBytes + 1<<20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公告列表公开可见
		v1.GET("/announcements", h.Announcement.List)
		v1.GET("/announcements/:id", h.Announcement.Get)
		// 答辩日历公开订阅
		v1.GET("/export/defenses.ics", h.Export.DefenseCalendar)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(model.RoleSecretary, model.RoleProfessor), h.User.List)
				users.GET("/:id", h.User.Get)
				users.POST("", middleware.RoleAuth(model.RoleSecretary), h.User.Create)
				users.PUT("/:id", h.User.Update) // 秘书处或本人（Service 层鉴权）
				users.DELETE("/:id", middleware.RoleAuth(model.RoleSecretary), h.User.Delete)
				users.PUT("/:id/password", middleware.RoleAuth(model.RoleSecretary), h.User.ResetPassword)
				users.POST("/import", middleware.RoleAuth(model.RoleSecretary), h.User.Import)
			}

			// 题目模块
			topics := authorized.Group("/topics")
			{
				topics.GET("", h.Topic.List)
				topics.GET("/:id", h.Topic.Get)
				topics.GET("/:id/attachment", h.Topic.DownloadAttachment)
				topics.POST("", middleware.RoleAuth(model.RoleProfessor), h.Topic.Create)
				topics.PUT("/:id", middleware.RoleAuth(model.RoleProfessor), h.Topic.Update)
				topics.DELETE("/:id", middleware.RoleAuth(model.RoleProfessor), h.Topic.Delete)
				topics.POST("/:id/assign", middleware.RoleAuth(model.RoleProfessor, model.RoleSecretary), h.Assignment.AssignTopic)
			}

			// 论文生命周期模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", h.Assignment.List)
				assignments.GET("/:id", h.Assignment.Get)
				assignments.GET("/:id/attachment", h.Assignment.DownloadAttachment)
				assignments.DELETE("/:id/temporary", middleware.RoleAuth(model.RoleProfessor), h.Assignment.CancelTemporary)
				assignments.PUT("/:id/assign", middleware.RoleAuth(model.RoleSecretary), h.Assignment.Assign)
				assignments.PUT("/:id/review", middleware.RoleAuth(model.RoleProfessor), h.Assignment.Review)
				assignments.PUT("/:id/complete", middleware.RoleAuth(model.RoleSecretary), h.Assignment.Complete)
				assignments.PUT("/:id/cancel", middleware.RoleAuth(model.RoleProfessor, model.RoleSecretary), h.Assignment.Cancel)
				assignments.PUT("/:id/presentation", middleware.RoleAuth(model.RoleProfessor), h.Assignment.SetPresentation)

				// 邀请（论文维度）
				assignments.POST("/:id/invitations", middleware.RoleAuth(model.RoleProfessor), h.Invitation.Send)
				assignments.GET("/:id/invitations", middleware.RoleAuth(model.RoleProfessor), h.Invitation.ListByThesis)

				// 评审
				assignments.POST("/:id/grades", middleware.RoleAuth(model.RoleProfessor), h.Evaluation.SubmitGrades)
				assignments.PUT("/:id/grades", middleware.RoleAuth(model.RoleProfessor), h.Evaluation.SubmitGrades)
				assignments.PUT("/:id/protocol", middleware.RoleAuth(model.RoleProfessor), h.Evaluation.SubmitProtocol)
				assignments.GET("/:id/evaluation", h.Evaluation.Get)

				// 备注
				assignments.POST("/:id/notes", middleware.RoleAuth(model.RoleProfessor), h.Note.Create)
				assignments.GET("/:id/notes", middleware.RoleAuth(model.RoleProfessor), h.Note.ListByThesis)
			}

			// 邀请模块（教授维度）
			invitations := authorized.Group("/invitations")
			invitations.Use(middleware.RoleAuth(model.RoleProfessor))
			{
				invitations.GET("", h.Invitation.ListMine)
				invitations.PUT("/:id", h.Invitation.Reply)
			}

			// 备注模块（单条维度）
			notes := authorized.Group("/notes")
			notes.Use(middleware.RoleAuth(model.RoleProfessor))
			{
				notes.PUT("/:id", h.Note.Update)
				notes.DELETE("/:id", h.Note.Delete)
			}

			// 公告模块（写操作，秘书处）
			announcements := authorized.Group("/announcements")
			announcements.Use(middleware.RoleAuth(model.RoleSecretary))
			{
				announcements.POST("", h.Announcement.Create)
				announcements.PUT("/:id", h.Announcement.Update)
				announcements.DELETE("/:id", h.Announcement.Delete)
			}

			// 统计模块
			stats := authorized.Group("/stats")
			{
				stats.GET("/me", middleware.RoleAuth(model.RoleProfessor), h.Stats.GetMine)
				stats.GET("/professors/:id", h.Stats.GetByProfessor)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/completed", middleware.RoleAuth(model.RoleSecretary), h.Export.CompletedTheses)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
