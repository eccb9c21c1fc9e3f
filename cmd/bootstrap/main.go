package main

import (
	"context"
	"os"

	"github.com/aws/aws-xray-sdk-go/xray"

	"course-platform/internal/adapters/cache"
	adaptermiddleware "course-platform/internal/adapters/http/middleware"
	adapterlogger "course-platform/internal/adapters/logger"
	"course-platform/internal/adapters/mailer"
	"course-platform/internal/application"
	"course-platform/internal/config"
	"course-platform/internal/infrastructure/dynamodb"
	httpiface "course-platform/internal/interfaces/http"
)

func main() {
	logger := adapterlogger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(context.Background(), "configuration error", "error", err)
		os.Exit(1)
	}
	xray.Configure(xray.Config{LogLevel: "error"})

	ddbClient, err := dynamodb.NewClient(context.Background(), cfg.Region, cfg.TableName)
	if err != nil {
		logger.Error(context.Background(), "failed to initialize dynamodb client", "error", err)
		os.Exit(1)
	}
	userRepo := dynamodb.NewUserRepository(ddbClient)
	groupRepo := dynamodb.NewGroupRepository(ddbClient)
	courseRepo := dynamodb.NewCourseRepository(ddbClient)
	lessonRepo := dynamodb.NewLessonRepository(ddbClient)
	routeRepo, err := cache.NewRouteCache(dynamodb.NewRouteRepository(ddbClient), cfg.RouteCacheSize)
	if err != nil {
		logger.Error(context.Background(), "failed to initialize route cache", "error", err)
		os.Exit(1)
	}

	tokenSvc := application.NewTokenService(
		cfg.AccessSecret, cfg.RefreshSecret, cfg.RecoverySecret,
		cfg.AccessTTL, cfg.RefreshTTL,
	)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	authSvc := application.NewAuthService(userRepo, tokenSvc, smtpMailer, logger, cfg.SingleSessionRefresh, cfg.PasswordResetURL)
	authzSvc := application.NewAuthorizationService(userRepo, groupRepo, logger)

	handlers := httpiface.Handlers{
		Auth:    httpiface.NewAuthHandler(authSvc, logger),
		Users:   httpiface.NewUsersHandler(application.NewUserService(userRepo), logger),
		Groups:  httpiface.NewGroupsHandler(application.NewGroupService(groupRepo), logger),
		Routes:  httpiface.NewRoutesHandler(application.NewRouteService(routeRepo), logger),
		Courses: httpiface.NewCoursesHandler(application.NewCourseService(courseRepo), logger),
		Lessons: httpiface.NewLessonsHandler(application.NewLessonService(lessonRepo, courseRepo), logger),
	}
	mw := httpiface.Middleware{
		Authenticate:  adaptermiddleware.Authenticate(tokenSvc, userRepo),
		Authorize:     adaptermiddleware.Authorize(tokenSvc, routeRepo, authzSvc, logger, cfg.AppDomain),
		XRay:          adaptermiddleware.XRayMiddleware("course-platform-http"),
		RequestLogger: adaptermiddleware.RequestLogger(logger),
	}

	e := httpiface.NewMainRouter(handlers, mw)
	logger.Info(context.Background(), "starting http server", "port", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
