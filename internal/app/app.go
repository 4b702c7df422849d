package app

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "user-admin/internal/controller/http"
	"user-admin/internal/model"
	"user-admin/internal/repo/persistent"
	"user-admin/internal/usecase"
	"user-admin/pkg/config"
	"user-admin/pkg/database"
	"user-admin/pkg/logger"
	"user-admin/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "user-admin/docs" // Swagger docs
)

type App struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *gorm.DB
	s3Client   *s3.Client
	httpServer *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	if err := db.AutoMigrate(&model.RoleModel{}, &model.UserModel{}); err != nil {
		log.Error("Failed to migrate schema: %v", err)
		return nil, err
	}

	var s3Client *s3.Client
	if cfg.AvatarStorageEnabled() {
		s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v (continuing without avatar storage)", err)
			s3Client = nil
		}
	} else {
		log.Warn("Avatar storage not configured, avatar uploads disabled")
	}

	return &App{
		cfg:      cfg,
		log:      log,
		db:       db,
		s3Client: s3Client,
	}, nil
}

func (a *App) Run() error {
	// Repositories
	userRepo := persistent.NewUserRepository(a.db)
	roleRepo := persistent.NewRoleRepository(a.db)

	// Use cases
	userUseCase := usecase.NewUserUseCase(userRepo, roleRepo, a.s3Client, a.log)
	roleUseCase := usecase.NewRoleUseCase(roleRepo, a.log)

	// Handlers
	userHandler := apphttp.NewUserHandler(userUseCase)
	roleHandler := apphttp.NewRoleHandler(roleUseCase)
	adminHandler := apphttp.NewAdminHandler(userUseCase, roleUseCase)

	gin.SetMode(a.cfg.GinMode)
	r := gin.Default()
	r.SetFuncMap(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"dec": func(i int) int { return i - 1 },
	})
	r.LoadHTMLGlob(a.cfg.TemplatesGlob)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.POST("/users", userHandler.CreateUser)
		api.GET("/users", userHandler.ListUsers)
		api.POST("/users/verify", userHandler.VerifyUser)
		api.GET("/users/username/:username", userHandler.GetUserByUsername)
		api.GET("/users/:id", userHandler.GetUser)
		api.PUT("/users/:id", userHandler.UpdateUser)
		api.DELETE("/users/:id", userHandler.DeleteUser)
		api.POST("/users/:id/avatar", userHandler.UploadAvatar)
		// legacy alias, same contract as /users/verify
		api.POST("/verify", userHandler.VerifyUser)

		api.GET("/roles", roleHandler.ListRoles)
		api.POST("/roles", roleHandler.CreateRole)
		api.DELETE("/roles/:id", roleHandler.DeleteRole)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/new", adminHandler.NewUserForm)
		admin.POST("/users", adminHandler.CreateUser)
		admin.POST("/users/verify", adminHandler.VerifyUser)
		admin.GET("/users/:id/edit", adminHandler.EditUserForm)
		admin.POST("/users/:id", adminHandler.UpdateUser)
		admin.POST("/users/:id/delete", adminHandler.DeleteUser)

		admin.GET("/roles", adminHandler.ListRoles)
		admin.POST("/roles", adminHandler.CreateRole)
		admin.POST("/roles/:id/delete", adminHandler.DeleteRole)
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("User admin service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down user admin service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("User admin service exited")
	return nil
}
