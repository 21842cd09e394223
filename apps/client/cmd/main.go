package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ReachServer/apps/client/internal/repository"
	"ReachServer/apps/client/internal/router"
	v1 "ReachServer/apps/client/internal/router/v1"
	"ReachServer/apps/client/internal/service"
	"ReachServer/config"
	"ReachServer/pkg/async"
	"ReachServer/pkg/avatar"
	"ReachServer/pkg/logger"
	pkgminio "ReachServer/pkg/minio"
	pkgmysql "ReachServer/pkg/mysql"
	pkgredis "ReachServer/pkg/redis"
	"ReachServer/pkg/util"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()
	//设置trace_id 为 0
	traceId := "0"
	ctx = context.WithValue(ctx, "trace_id", traceId)

	// 1. 初始化日志
	loggerCfg := config.DefaultLoggerConfig()
	l, err := logger.Build(loggerCfg)
	if err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	logger.ReplaceGlobal(l)
	defer func() {
		// 同步日志缓冲区
		if err := logger.L().Sync(); err != nil {
			// Sync 在某些情况下会返回错误（如 os.Stdout），可以忽略
			_ = err
		}
	}()

	logger.Info(ctx, "Client 服务初始化中...")

	// 2. 初始化 MySQL（必选依赖，失败直接退出）
	mysqlCfg := config.DefaultMySQLConfig()
	db, err := pkgmysql.Build(mysqlCfg)
	if err != nil {
		logger.Error(ctx, "初始化 MySQL 失败",
			logger.ErrorField("error", err),
		)
		os.Exit(1)
	}
	pkgmysql.ReplaceGlobal(db)
	logger.Info(ctx, "MySQL 初始化成功",
		logger.String("addr", fmt.Sprintf("%s:%d", mysqlCfg.Host, mysqlCfg.Port)),
	)

	// 3. 初始化 Redis
	redisCfg := config.DefaultRedisConfig()
	redisClient, err := pkgredis.Build(redisCfg)
	if err != nil {
		logger.Error(ctx, "初始化 Redis 失败，缓存与限流降级",
			logger.ErrorField("error", err),
		)
		// Redis 初始化失败不阻塞启动：查询直连 MySQL，限流放行
		redisClient = nil
	} else {
		pkgredis.ReplaceGlobal(redisClient)
		logger.Info(ctx, "Redis 初始化成功",
			logger.String("addr", redisCfg.Addr),
		)
	}

	// 4. 初始化异步任务池（缓存回填/失效重试用）
	asyncCfg := config.DefaultAsyncConfig()
	if err := async.Init(asyncCfg); err != nil {
		logger.Error(ctx, "初始化异步任务池失败",
			logger.ErrorField("error", err),
		)
		os.Exit(1)
	}
	defer func() {
		_ = async.Release()
	}()
	logger.Info(ctx, "异步任务池初始化完成",
		logger.Int("pool_size", asyncCfg.PoolSize),
	)

	// 5. 初始化雪花节点（导入批次号）
	if err := util.InitSnowflake(1); err != nil {
		logger.Error(ctx, "初始化雪花节点失败",
			logger.ErrorField("error", err),
		)
		os.Exit(1)
	}

	// 6. 初始化头像存储与解析器
	avatarCfg := config.DefaultAvatarConfig()
	var avatarStore avatar.Store
	switch avatarCfg.Storage {
	case config.AvatarStorageMinIO:
		minioCfg := config.DefaultMinIOConfig()
		minioClient, err := pkgminio.Build(minioCfg)
		if err != nil {
			logger.Error(ctx, "初始化 MinIO 失败",
				logger.ErrorField("error", err),
			)
			os.Exit(1)
		}
		pkgminio.ReplaceGlobal(minioClient)
		avatarStore = avatar.NewMinIOStore(minioClient)
		logger.Info(ctx, "头像存储使用 MinIO",
			logger.String("endpoint", minioCfg.Endpoint),
			logger.String("bucket", minioCfg.BucketName),
		)
	default:
		avatarStore, err = avatar.NewLocalStore(avatarCfg.StaticDir)
		if err != nil {
			logger.Error(ctx, "初始化头像本地目录失败",
				logger.ErrorField("error", err),
			)
			os.Exit(1)
		}
		logger.Info(ctx, "头像存储使用本地目录",
			logger.String("dir", avatarCfg.StaticDir),
		)
	}

	resolver, err := avatar.NewResolver(avatarCfg, avatarStore)
	if err != nil {
		logger.Error(ctx, "初始化头像解析器失败",
			logger.ErrorField("error", err),
		)
		os.Exit(1)
	}

	// 7. 初始化 Repository 层（依赖注入）
	clientRepo := repository.NewClientRepository(db, redisClient)
	relationRepo := repository.NewRelationRepository(db, redisClient)

	// 8. 初始化 Service 层（依赖注入）
	clientService := service.NewClientService(clientRepo, resolver)
	relationService := service.NewRelationService(clientRepo, relationRepo)
	importService := service.NewImportService(clientRepo, relationRepo, resolver)
	logger.Info(ctx, "服务层初始化完成")

	// 9. 初始化 Handler 层（依赖注入）
	clientHandler := v1.NewClientHandler(clientService, importService)
	relationHandler := v1.NewRelationHandler(relationService)
	logger.Info(ctx, "处理器初始化完成")

	// 10. 初始化路由（依赖注入）
	serverCfg := config.DefaultServerConfig()
	switch serverCfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := router.InitRouter(clientHandler, relationHandler, serverCfg, avatarCfg)
	logger.Info(ctx, "路由初始化完成")

	// 11. 配置服务器
	srv := &http.Server{
		Addr:           serverCfg.Addr,
		Handler:        r,
		ReadTimeout:    serverCfg.ReadTimeout,
		WriteTimeout:   serverCfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 最大请求头 1MB
	}

	// 12. 启动服务器（在 goroutine 中）
	go func() {
		logger.Info(ctx, "Client 服务器启动中",
			logger.String("address", serverCfg.Addr),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "服务器启动失败", logger.ErrorField("error", err))
			os.Exit(1)
		}
	}()

	logger.Info(ctx, "Client 服务器启动成功，按 Ctrl+C 关闭")

	// 13. 优雅停机
	quit := make(chan os.Signal, 1)
	// 监听中断信号：Ctrl+C (SIGINT) 和 kill 命令 (SIGTERM)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info(ctx, "收到关闭信号，开始优雅停机...",
		logger.String("signal", sig.String()),
	)

	// 等待正在处理的请求完成
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "服务器强制关闭", logger.ErrorField("error", err))
		os.Exit(1)
	}

	logger.Info(ctx, "Client 服务器已优雅退出")
}
