package main

import (
	"log"

	"stock-simulator/config"
	"stock-simulator/database"
	"stock-simulator/handlers"
	"stock-simulator/ledger"
	"stock-simulator/middleware"
	"stock-simulator/portfolio"
	"stock-simulator/quotes"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: ", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("connect database: ", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("migrate models: ", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	quoteClient := quotes.NewClient(cfg.AlphaVantageKey, quotes.NewRedisCache(rdb), cfg.QuoteCacheExpiry, db)
	ledgerSvc := ledger.NewService(db, quoteClient)
	valuer := portfolio.NewValuer(ledgerSvc, quoteClient)

	authHandler := handlers.NewAuthHandler(db, handlers.NewRedisTokenStore(rdb), cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tradeHandler := handlers.NewTradeHandler(ledgerSvc)
	portfolioHandler := handlers.NewPortfolioHandler(valuer, quoteClient)

	router := gin.Default()

	// Public routes
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.POST("/refresh", authHandler.Refresh)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		auth.GET("/portfolio", portfolioHandler.Portfolio)
		auth.GET("/quote/:symbol", portfolioHandler.Quote)
		auth.POST("/deposit", tradeHandler.Deposit)
		auth.POST("/buy", tradeHandler.Buy)
		auth.POST("/sell", tradeHandler.Sell)
		auth.GET("/history", tradeHandler.History)
		auth.POST("/logout", authHandler.Logout)
	}

	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal("run server: ", err)
	}
}
