package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"takeout/internal/config"
	"takeout/internal/domain/model"
	"takeout/internal/handler"
	"takeout/internal/infra/cache"
	"takeout/internal/infra/db"
	"takeout/internal/infra/mq"
	"takeout/internal/infra/payment"
	infraRepo "takeout/internal/infra/repository"
	"takeout/internal/logger"
	"takeout/internal/repository"
	"takeout/internal/server"
	"takeout/internal/task"
	"takeout/internal/usecase"
	auth "takeout/internal/usecase/auth_usecase"
	"takeout/internal/validator"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.Init(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Redis
	pool, err := cache.NewPool(cfg.RedisAddr, 10)
	if err != nil {
		return err
	}
	defer pool.Close()
	redisCache := cache.NewRedisCache(pool)

	//RabbitMQ（URLがなければログだけ）
	var events usecase.EventPublisher = mq.NewLogPublisher()
	if cfg.RabbitMQURL != "" {
		pub, err := mq.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer pub.Close()
		events = pub
	}

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	repos := infraRepo.NewRepos(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	gateway := payment.NewStubGateway()
	authValidator := validator.NewAuthValidator(userRepo)

	if err := seedAdmin(context.Background(), repos.Employees(), hasher, cfg.AdminInitialPassword); err != nil {
		return err
	}

	//Usecase生成
	employeeUC := usecase.NewEmployeeUsecase(txm, repos.Employees(), hasher, verifier, issuer, clock)
	dishUC := usecase.NewDishUsecase(txm, repos.Dishes(), repos.DishFlavors(), redisCache, cfg.CacheTTL, clock)
	comboUC := usecase.NewComboUsecase(txm, repos.Combos(), repos.ComboDishes(), repos.Dishes(), redisCache, cfg.CacheTTL, clock)
	shopUC := usecase.NewShopUsecase(redisCache)
	orderUC := usecase.NewOrderUsecase(txm, addressRepo, gateway, events, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, gateway, events, clock)
	cartUC := usecase.NewCartUsecase(repos.CartItems(), repos.Dishes(), repos.Combos(), clock)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	reportUC := usecase.NewReportUsecase(repos.Orders(), repos.OrderItems(), userRepo, clock)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)
	registerUC := auth.NewRegisterUserUsecase(userRepo, authValidator, hasher)
	loginUC := auth.NewLoginUsecase(userRepo, authValidator, verifier, issuer, clock)

	//Handler生成
	e := server.New(server.Handlers{
		Employee:   handler.NewEmployeeHandler(employeeUC),
		Dish:       handler.NewDishHandler(dishUC),
		Combo:      handler.NewComboHandler(comboUC),
		Shop:       handler.NewShopHandler(shopUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
		Report:     handler.NewReportHandler(reportUC),
		AuditLog:   handler.NewAuditLogHandler(auditUC),
		Auth:       handler.NewAuthHandler(registerUC, loginUC),
		Order:      handler.NewOrderHandler(orderUC, cartUC),
		Cart:       handler.NewCartHandler(cartUC),
		Address:    handler.NewAddressHandler(addressUC),
	}, cfg.JWTSecret, employeeUC)

	//定期処理
	orderTask := task.NewOrderTask(repos.Orders(), clock, cfg.OrderTimeout, cfg.DeliveryLookback)
	scheduler := cron.New()
	if err := task.Register(scheduler, orderTask, cfg.TimeoutCron, cfg.DeliveryCron); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("server started", zap.String("addr", cfg.Addr()), zap.String("db", cfg.DBDriver))
		return server.Start(gctx, e, cfg.Addr())
	})
	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		//実行中のジョブを待つ
		<-scheduler.Stop().Done()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zap.L().Info("server stopped gracefully")
	return nil
}

// 初回起動時に admin を作る。パスワード未指定なら 123456 で作り警告を出す
func seedAdmin(ctx context.Context, employees repository.EmployeeRepository, hasher usecase.PasswordHasher, password string) error {
	_, err := employees.FindByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	defaulted := password == ""
	if defaulted {
		password = usecase.DefaultEmployeePassword
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	admin := model.Employee{
		Username:     "admin",
		Name:         "administrator",
		PasswordHash: hash,
		Status:       model.StatusEnabled,
	}
	if err := employees.Create(ctx, &admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	zap.L().Info("admin account created", zap.Int64("id", admin.ID))
	if defaulted {
		zap.L().Warn("admin account uses the default password, set ADMIN_INITIAL_PASSWORD or change it after first login")
	}
	return nil
}
