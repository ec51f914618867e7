package wire

import (
	"Converse/internal/api"
	"Converse/internal/api/config"
	"Converse/internal/api/handler"
	"Converse/internal/job"
	"Converse/internal/pkg/cron"
	"Converse/internal/pkg/kafka"
	"Converse/internal/pkg/mongo"
	"Converse/internal/repository"
	"Converse/internal/service"
	"Converse/internal/ws"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router         *gin.Engine
	DB             *gorm.DB
	Registry       *ws.Registry
	MessageService service.MessageService
	KafkaManager   *kafka.ConsumerManager
	CronMgr        *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoConn *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	chatRepo := repository.NewChatRepo(db)
	participantRepo := repository.NewParticipantRepo(db)
	permissionsRepo := repository.NewPermissionsRepo(db)
	reactionRepo := repository.NewReactionRepo(db)
	pinRepo := repository.NewPinRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	messageRepo := mongo.NewMessageRepo(mongoConn)
	notifyRepo := mongo.NewNotificationRepo(mongoConn)

	registry := ws.NewRegistry()
	guard := service.NewGuard()

	notifyService := service.NewNotificationService(notifyRepo, settingsRepo, registry)
	chatService := service.NewChatService(chatRepo, participantRepo, permissionsRepo, guard, notifyService, registry)
	messageService := service.NewMessageService(chatRepo, participantRepo, permissionsRepo, reactionRepo, pinRepo, messageRepo, guard, notifyService)

	handlers := &api.HandlersGroup{
		ChatHandler:         handler.NewChatHandler(chatService),
		MessageHandler:      handler.NewMessageHandler(messageService),
		NotificationHandler: handler.NewNotificationHandler(notifyService),
		WSHandler:           handler.NewWsHandler(registry),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, notifyService)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewNotificationCleanJob(notifyRepo))

	return &ApplicationContainer{
		Router:         router,
		DB:             db,
		Registry:       registry,
		MessageService: messageService,
		KafkaManager:   kafkaMgr,
		CronMgr:        cronMgr,
	}, nil
}
