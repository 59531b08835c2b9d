package main

import (
	"context"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infragw "app/internal/infra/gateway"
	infrarepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無ければ無いでいい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.PendingPayment{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	productRepo := infrarepo.NewProductGormRepository(gormDB)
	cartItemRepo := infrarepo.NewCartItemGormRepository(gormDB)
	pendingRepo := infrarepo.NewPendingPaymentGormRepository(gormDB)
	orderRepo := infrarepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infrarepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infrarepo.NewAuditLogGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	//初期商品投入（空のときだけ）
	seeded, err := infrarepo.SeedProducts(context.Background(), productRepo)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	if seeded {
		logger.Info("seeded initial products")
	}

	//決済クライアント
	paypalClient := infragw.NewPayPalClient(cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalMode, "", logger)
	stripeClient := infragw.NewStripeClient(cfg.StripeSecretKey, "", logger)

	//Usecase生成
	authValidator := validator.NewAuthValidator(userRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, authValidator)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	checkoutUC := usecase.NewCheckoutUsecase(
		cartItemRepo,
		productRepo,
		pendingRepo,
		auditRepo,
		txManager,
		paypalClient,
		stripeClient,
		cfg.APIBaseURL,
		cfg.Currency,
		logger,
	)

	//Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Product:  handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC, cfg.FEURL),
		Order:    handler.NewOrderHandler(orderUC),
	}

	//Server起動
	e := server.New(cfg, handlers, logger)
	logger.Info("listening", zap.String("port", cfg.Port))
	if err := server.Start(e, cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	if cfg.GoEnv == "dev" {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}
