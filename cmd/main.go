package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/anhlelha/aws-exam-practice/config"
	"github.com/anhlelha/aws-exam-practice/database"
	_ "github.com/anhlelha/aws-exam-practice/docs" // Swagger docs
	"github.com/anhlelha/aws-exam-practice/internal/controller"
	"github.com/anhlelha/aws-exam-practice/internal/logger"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/anhlelha/aws-exam-practice/internal/service"
)

// @title AWS Exam Practice API
// @version 1.0
// @description Study aid for AWS certification exams: PDF question ingestion, LLM enrichment, test assembly and scored practice sessions.
// @host localhost:3001
// @BasePath /api
// @schemes http
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewCategoryRepository,
			repository.NewTagRepository,
			repository.NewTestRepository,
			repository.NewSessionRepository,
			repository.NewLLMConfigRepository,
		),

		// Services layer
		fx.Provide(
			service.NewLLMService,
			service.NewSelectorService,
			service.NewQuestionService,
			service.NewCategoryService,
			service.NewTestService,
			service.NewSessionService,
			service.NewDiagramService,
			service.NewUploadService,
			service.NewChatService,
			service.NewSettingsService,
			service.NewDataService,
		),

		// API controllers layer
		fx.Provide(
			controller.NewQuestionController,
			controller.NewCategoryController,
			controller.NewTestController,
			controller.NewSessionController,
			controller.NewUploadController,
			controller.NewChatController,
			controller.NewSettingsController,
			controller.NewDataController,
		),

		fx.Invoke(MigrateAndSeed),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Generated diagrams are served as static files.
	r.Static("/diagrams", cfg.DiagramDir)

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API surface and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	questionCtrl *controller.QuestionController,
	categoryCtrl *controller.CategoryController,
	testCtrl *controller.TestController,
	sessionCtrl *controller.SessionController,
	uploadCtrl *controller.UploadController,
	chatCtrl *controller.ChatController,
	settingsCtrl *controller.SettingsController,
	dataCtrl *controller.DataController,
) {
	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		questions := api.Group("/questions")
		{
			questions.GET("", questionCtrl.ListQuestions)
			questions.POST("", questionCtrl.CreateQuestion)
			questions.GET("/tags", questionCtrl.ListTags)
			questions.POST("/bulk-tag", questionCtrl.AutoTagBulk)
			questions.POST("/bulk-classify", questionCtrl.AutoClassifyBulk)
			questions.GET("/:id", questionCtrl.GetQuestion)
			questions.PUT("/:id", questionCtrl.UpdateQuestion)
			questions.DELETE("/:id", questionCtrl.DeleteQuestion)
			questions.GET("/:id/stats", questionCtrl.GetQuestionStats)
			questions.POST("/:id/auto-tag", questionCtrl.AutoTagQuestion)
			questions.POST("/:id/auto-classify", questionCtrl.AutoClassifyQuestion)
			questions.POST("/:id/diagram/generate", questionCtrl.GenerateDiagram)
			questions.POST("/:id/diagram/upload", questionCtrl.UploadDiagram)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryCtrl.ListCategories)
			categories.GET("/stats/overview", categoryCtrl.CategoryStats)
			categories.GET("/:id", categoryCtrl.GetCategory)
		}

		tests := api.Group("/tests")
		{
			tests.GET("", testCtrl.ListTests)
			tests.POST("", testCtrl.CreateTest)
			tests.POST("/create-with-selection", testCtrl.CreateTestWithSelection)
			tests.POST("/generate", testCtrl.GenerateTest)
			tests.POST("/preview", testCtrl.PreviewSelection)
			tests.GET("/stats", testCtrl.PoolStats)
			tests.GET("/:id", testCtrl.GetTest)
			tests.PUT("/:id", testCtrl.UpdateTest)
			tests.DELETE("/:id", testCtrl.DeleteTest)
			tests.GET("/:id/questions", testCtrl.GetTestQuestions)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionCtrl.StartSession)
			sessions.GET("/active", sessionCtrl.ListActiveSessions)
			sessions.GET("/history", sessionCtrl.SessionHistory)
			sessions.GET("/:id", sessionCtrl.GetSession)
			sessions.PUT("/:id/answer", sessionCtrl.SubmitAnswer)
			sessions.PUT("/:id/flag", sessionCtrl.ToggleFlag)
			sessions.POST("/:id/complete", sessionCtrl.CompleteSession)
		}

		api.POST("/upload", uploadCtrl.UploadPDF)
		api.GET("/upload/status/:jobId", uploadCtrl.UploadStatus)

		api.POST("/chat", chatCtrl.Chat)
		api.GET("/chat/status", chatCtrl.ChatStatus)

		settings := api.Group("/settings")
		{
			settings.GET("/llm", settingsCtrl.ListLLMConfigs)
			settings.GET("/llm/:role", settingsCtrl.GetLLMConfig)
			settings.PUT("/llm/:role", settingsCtrl.UpdateLLMConfig)
		}

		data := api.Group("/data")
		{
			data.GET("/export", dataCtrl.ExportData)
			data.POST("/import", dataCtrl.ImportData)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("AWS Exam Practice API listening on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// MigrateAndSeed creates the schema and inserts baseline rows.
func MigrateAndSeed(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Certification{},
		&model.Category{},
		&model.Tag{},
		&model.Question{},
		&model.Answer{},
		&model.QuestionTag{},
		&model.Test{},
		&model.TestQuestion{},
		&model.PracticeSession{},
		&model.SessionQuestion{},
		&model.SessionAnswer{},
		&model.LLMConfig{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	return database.Seed(db)
}
