package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kabar-app/kabar/app_config"
	"github.com/kabar-app/kabar/auditlog"
	"github.com/kabar-app/kabar/cache"
	"github.com/kabar-app/kabar/engine"
	"github.com/kabar-app/kabar/fanout"
	"github.com/kabar-app/kabar/feed"
	"github.com/kabar-app/kabar/push"
	"github.com/kabar-app/kabar/relay"
	"github.com/kabar-app/kabar/server"
	"github.com/kabar-app/kabar/store"
	"github.com/kabar-app/kabar/utils"
	"github.com/kabar-app/kabar/utils/dotenv"
	"github.com/kabar-app/kabar/utils/flag"
	. "github.com/kabar-app/kabar/utils/log"
)

const configPath = "cmd/server/config.yaml"

func main() {
	flag.ParseFlags()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	config := app_config.ParseServerAppConfig(configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatalln("fail to connect to database:", err)
	}
	utils.DatabaseSetupAndMigration(db)
	contentStore := store.NewStore(db)

	feedCache, err := cache.NewRedisFeedCache(ctx)
	if err != nil {
		Log.Fatalln("fail to connect to feed cache:", err)
	}

	statsdClient := utils.NewStatsdClient()
	bus := relay.NewBus(config.RELAY_OUTPUT_CHANNEL_BUFFER)
	hub := push.NewHub()

	invalidator := fanout.NewInvalidator(contentStore, feedCache, statsdClient)
	publisher := relay.NewPublisher(bus, statsdClient)
	recorder := auditlog.NewRecorder(contentStore, statsdClient)

	sideEffectTimeout := config.SideEffectTimeout()
	handlers := server.NewHandlers(
		feed.NewService(feedCache, contentStore, contentStore),
		server.NewPostService(contentStore, invalidator, publisher, recorder, sideEffectTimeout),
		server.NewCommentService(contentStore, invalidator, publisher, recorder, statsdClient, sideEffectTimeout),
		server.NewFollowService(contentStore, invalidator, sideEffectTimeout),
		contentStore,
		hub,
	)

	if !flag.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	handlers.RegisterRoutes(router)

	// The relay is the only background module for now. The engine still owns
	// its lifecycle so future modules slot in without new shutdown plumbing.
	e := engine.NewEngine(ctx, []engine.Module{
		relay.NewRelay(bus, hub, statsdClient),
	})
	go func() {
		<-ctx.Done()
		e.Shutdown()
	}()
	go e.Run()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.HTTP_PORT),
		Handler: router,
	}
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	Log.Infoln("api server starts up on port", config.HTTP_PORT)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		Log.Fatalln("api server exited:", err)
	}
	Log.Infoln("api server shutdown")
}
