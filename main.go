package main

import (
	"log"
	"net/http"
	"time"

	"question-service/internal/config"
	"question-service/internal/db"
	"question-service/internal/discovery"
	"question-service/internal/event"
	"question-service/internal/handlers"
	"question-service/internal/repository"
	"question-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	if cfg.Mongo.URI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(cfg.Mongo.URI)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.Rabbit.URI != "" && cfg.Rabbit.Exchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.Rabbit.URI, cfg.Rabbit.Exchange, nil)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Consul registration and collaborator discovery
	var registry *discovery.ServiceRegistry
	if cfg.Consul.Address != "" {
		var err error
		registry, err = discovery.NewServiceRegistry(cfg.Consul, cfg.Server.Port)
		if err != nil {
			log.Fatalf("Failed to create Consul client: %v", err)
		}
		if err := registry.Register(); err != nil {
			log.Fatalf("Failed to register with Consul: %v", err)
		}
		defer registry.Deregister()
	} else {
		log.Println("Consul not configured, using fixed quiz service URL")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Cors.Origin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.Mongo.Database)

	questionRepo := repository.NewQuestionRepository(database)
	questionRepo.CategoryInsensitive = cfg.Matching.CategoryInsensitive
	questionService := service.NewQuestionService(questionRepo, nil)

	var resolver service.AddressResolver
	if registry != nil {
		resolver = registry
	}
	quizClient := service.NewQuizClient(cfg.Quiz.BaseURL, cfg.Quiz.Name, resolver, cfg.Quiz.CallTimeout, nil)

	questionHandler := handlers.NewQuestionHandler(questionService, quizClient)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	question := r.Group("/question")
	{
		question.GET("/allQuestions", func(c *gin.Context) {
			questionHandler.GetAllQuestions(c)
			if publisher != nil {
				publisher.Publish("question.list", nil)
			}
		})
		question.GET("/category/:category", func(c *gin.Context) {
			questionHandler.GetQuestionsByCategory(c)
			if publisher != nil {
				publisher.Publish("question.category", gin.H{"category": c.Param("category")})
			}
		})
		question.POST("/add", func(c *gin.Context) {
			questionHandler.AddQuestion(c)
			if publisher != nil {
				publisher.Publish("question.created", nil)
			}
		})
		question.GET("/generate", func(c *gin.Context) {
			questionHandler.GenerateQuiz(c)
			if publisher != nil {
				publisher.Publish("quiz.generated", gin.H{
					"category": c.Query("categoryName"),
					"count":    c.Query("numQuestions"),
				})
			}
		})
		question.POST("/getQuestions", func(c *gin.Context) {
			questionHandler.GetQuestions(c)
			if publisher != nil {
				publisher.Publish("question.batch_fetched", nil)
			}
		})
		question.POST("/getScore", func(c *gin.Context) {
			questionHandler.GetScore(c)
			if publisher != nil {
				publisher.Publish("quiz.scored", nil)
			}
		})
		question.GET("/call-quiz", func(c *gin.Context) {
			questionHandler.CallQuiz(c)
			if publisher != nil {
				publisher.Publish("quiz.collaborator_called", nil)
			}
		})
	}

	r.Run(":" + cfg.Server.Port)
}
