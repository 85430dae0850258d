package router

import (
	"filetag-go/internal/config"
	"filetag-go/internal/handler"
	"filetag-go/internal/metrics"
	"filetag-go/internal/middleware"
	"filetag-go/internal/repository"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"
	"filetag-go/pkg/drand"
	"filetag-go/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options 路由依赖
type Options struct {
	Config     *config.Config
	JWTManager *utils.JWTManager
	Logger     *logrus.Logger
	DB         *gorm.DB
	// RedisClient 为 nil 时投票进行中标记使用进程内限制器
	RedisClient *redis.Client
	// Bonus 为 nil 时使用 drand 信标
	Bonus service.BonusSource
	// Hub 为 nil 时创建新的广播中心
	Hub *service.VoteHub
}

// SetupRouter 设置路由
func SetupRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	logger := opts.Logger

	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidator()

	r := gin.New()

	// 全局中间件
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))
	r.Use(metrics.Middleware())

	// 健康检查
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Filecoin 文件标签服务 API",
			"version": "1.0.0",
		})
	})

	// 初始化Repository
	store := repository.NewStore(opts.DB)

	// 初始化依赖
	drandClient := drand.NewClient(drand.Options{
		BaseURL:      cfg.Drand.BaseURL,
		ChainHash:    cfg.Drand.ChainHash,
		Timeout:      cfg.Drand.GetTimeout(),
		CacheEnabled: cfg.Drand.CacheEnabled,
		CacheTTL:     cfg.Drand.GetCacheTTL(),
		Logger:       logger,
	})
	bonusService := service.NewBonusService(drandClient)
	bonus := opts.Bonus
	if bonus == nil {
		bonus = bonusService
	}

	var voteGuard limiter.Limiter = limiter.NewLocalLimiter(1)
	if opts.RedisClient != nil {
		voteGuard = limiter.NewRedisLimiter(opts.RedisClient, 1, "filetag:inflight:", cfg.Redis.GetInflightTTL())
	}

	hub := opts.Hub
	if hub == nil {
		hub = service.NewVoteHub()
	}

	// 初始化Service
	identityService := service.NewIdentityService(store, opts.JWTManager, logger)
	pointsLedger := service.NewPointsLedger(store, logger)
	tagReconciler := service.NewTagReconciler(store, logger)
	voteLedger := service.NewVoteLedger(store, pointsLedger, voteGuard, hub, cfg.Rewards, logger)
	fileService := service.NewFileService(store, tagReconciler, pointsLedger, bonus, cfg.Rewards, logger)
	commentService := service.NewCommentService(store, logger)
	reportService := service.NewReportService(store, logger)
	maintenance := service.NewTagMaintenance(store, logger)

	// 初始化Handler
	walletHandler := handler.NewWalletHandler(identityService, pointsLedger, logger)
	fileHandler := handler.NewFileHandler(fileService, tagReconciler, logger)
	voteHandler := handler.NewVoteHandler(voteLedger, hub, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	systemHandler := handler.NewSystemHandler(store, bonusService, maintenance, logger)

	r.GET("/healthz", systemHandler.Health)
	r.GET("/metrics", metrics.Handler())

	rateLimit := middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	requireWallet := middleware.AuthMiddleware(opts.JWTManager)

	// API路由组
	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/wallet/connect", rateLimit, walletHandler.Connect)
		api.GET("/files", fileHandler.ListFiles)
		api.GET("/files/:id", fileHandler.GetFile)
		api.GET("/files/:id/tags", fileHandler.GetTags)
		api.GET("/files/:id/votes", middleware.OptionalAuthMiddleware(opts.JWTManager), voteHandler.GetVotes)
		api.GET("/files/:id/live", voteHandler.Live)
		api.GET("/files/:id/comments", commentHandler.ListComments)
		api.GET("/tags", fileHandler.SearchTags)
		api.GET("/bonus/preview", systemHandler.BonusPreview)

		// 内部API（运维脚本调用，使用内部密钥认证）
		internal := api.Group("/internal")
		internal.Use(middleware.InternalAPIAuth(cfg.Server.InternalAPIKey))
		{
			internal.POST("/jobs/dedupe-tags", systemHandler.DedupeTags)
		}

		// 认证路由
		authorized := api.Group("")
		authorized.Use(requireWallet)
		{
			// 用户信息
			authorized.GET("/me", walletHandler.GetMe)
			authorized.GET("/me/points", walletHandler.GetPoints)
			authorized.GET("/me/files", fileHandler.ListMyFiles)

			// 文件与标签
			authorized.POST("/files", rateLimit, fileHandler.CreateFile)
			authorized.PUT("/files/:id/tags", rateLimit, fileHandler.UpdateTags)
			authorized.DELETE("/files/:id/tags/:tag_id", fileHandler.UnlinkTag)

			// 投票
			authorized.POST("/files/:id/vote", rateLimit, voteHandler.CastVote)

			// 评论
			authorized.POST("/files/:id/comments", rateLimit, commentHandler.CreateComment)
			authorized.DELETE("/comments/:id", commentHandler.DeleteComment)

			// 举报
			authorized.POST("/files/:id/reports", rateLimit, reportHandler.CreateReport)
			authorized.GET("/files/:id/reports", reportHandler.ListReports)
		}
	}

	return r
}
