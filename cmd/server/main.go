package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"skillpath/backend/config"
	"skillpath/backend/internal/api/handler"
	"skillpath/backend/internal/api/router"
	"skillpath/backend/internal/repository"
	"skillpath/backend/internal/search"
	"skillpath/backend/internal/service"
	"skillpath/backend/internal/session"
	"skillpath/backend/pkg/database"
	"skillpath/backend/pkg/jwt"
	"skillpath/backend/pkg/llm"
	applogger "skillpath/backend/pkg/logger"
	"skillpath/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与分布式会话将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器与 LLM 客户端
	jwtMgr := jwt.NewManager(&cfg.Auth)

	llmClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		logger.Fatal("初始化 LLM 客户端失败", zap.Error(err))
	}

	// 6. 构建检索索引并灌入数据
	ctx := context.Background()

	courseIndex, err := search.NewSQLiteIndex(cfg.Search.DBPath)
	if err != nil {
		logger.Fatal("初始化课程索引失败", zap.Error(err))
	}
	if err := search.SeedCourses(ctx, courseIndex, logger); err != nil {
		logger.Fatal("课程索引灌入失败", zap.Error(err))
	}

	docIndex, err := search.NewSQLiteIndex(":memory:")
	if err != nil {
		logger.Fatal("初始化文档索引失败", zap.Error(err))
	}
	if err := search.SeedDocuments(ctx, docIndex, cfg.Search.DocsDir, logger); err != nil {
		logger.Warn("入职文档灌入失败，检索将返回空结果", zap.Error(err))
	}

	// 7. 会话存储：Redis 可用时分布式，否则进程内存
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, cfg.Session.HistoryTTL)
	} else {
		sessions = session.NewMemoryStore(cfg.Session.HistoryTTL)
	}

	// 8. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(service.Deps{
		Repo:        repo,
		JWT:         jwtMgr,
		Redis:       rdb,
		LLM:         llmClient,
		CourseIndex: courseIndex,
		DocIndex:    docIndex,
		Sessions:    sessions,
		Logger:      logger,
	})
	h := handler.NewHandler(svc)

	// 9. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM 调用耗时较长
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭索引与会话存储
	courseIndex.Close()
	docIndex.Close()
	sessions.Close()

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
