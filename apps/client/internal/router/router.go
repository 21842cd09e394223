package router

import (
	"ReachServer/apps/client/internal/middleware"
	v1 "ReachServer/apps/client/internal/router/v1"
	"ReachServer/config"
	"ReachServer/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitRouter 初始化路由
// clientHandler / relationHandler: 处理器（依赖注入）
// serverCfg: 服务配置（限流参数）
// avatarCfg: 头像配置（本地存储时挂载静态目录）
func InitRouter(
	clientHandler *v1.ClientHandler,
	relationHandler *v1.RelationHandler,
	serverCfg config.ServerConfig,
	avatarCfg config.AvatarConfig,
) *gin.Engine {
	r := gin.New()

	// 恢复中间件
	r.Use(middleware.GinRecovery(true))

	// 追踪中间件 (生成 trace_id)
	r.Use(util.TraceLogger())

	// 客户端 IP 中间件
	r.Use(middleware.ClientIPMiddleware())

	// 日志中间件
	r.Use(middleware.GinLogger())

	// Prometheus 监控中间件
	r.Use(middleware.PrometheusMiddleware())

	// 跨域中间件
	r.Use(middleware.CorsMiddleware())

	// IP 限流中间件（Redis 不可用时降级放行）
	r.Use(middleware.IPRateLimitMiddleware(serverCfg.RateLimitRate, serverCfg.RateLimitBurst))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Prometheus 指标暴露接口
	// Prometheus 会定时访问这个接口来拉取监控数据
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 头像静态目录（本地存储后端时挂载，MinIO 后端由对象存储直接对外）
	if avatarCfg.Storage == config.AvatarStorageLocal {
		r.Static("/static", avatarCfg.StaticDir)
	}

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 客户相关接口
		// 路径参数统一命名 :id——GET 语境下是业务主键 user_id，
		// PATCH/DELETE 语境下是内部自增 id（gin 同一位置只允许一个通配符名）
		clients := api.Group("/clients")
		{
			clients.GET("", clientHandler.ListClients)
			clients.POST("", clientHandler.CreateClient)
			clients.POST("/file", clientHandler.ImportClients)
			clients.GET("/:id", clientHandler.GetClient)
			clients.PATCH("/:id", clientHandler.UpdateClient)
			clients.DELETE("/:id", clientHandler.DeleteClient)
			clients.GET("/:id/relations", relationHandler.GetClientRelations)
		}

		// 关系相关接口
		relations := api.Group("/relations")
		{
			relations.GET("", relationHandler.ListRelations)
			relations.POST("", relationHandler.CreateRelation)
			relations.DELETE("/:relationId", relationHandler.DeleteRelation)
		}
	}

	return r
}
