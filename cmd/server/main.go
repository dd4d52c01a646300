package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"

	"github.com/socialmux/cleanser/cleaner"
	"github.com/socialmux/cleanser/model"
	"github.com/socialmux/cleanser/server"
	"github.com/socialmux/cleanser/sink"
	"github.com/socialmux/cleanser/store"
	"github.com/socialmux/cleanser/utils"
	"github.com/socialmux/cleanser/utils/dotenv"
	. "github.com/socialmux/cleanser/utils/flag"
	. "github.com/socialmux/cleanser/utils/log"
)

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Log.Info("api server shutdown")
}

func main() {
	ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	// Recreate the global log entry so it carries the parsed service flags.
	InitLogger()

	utils.InitTracer()
	utils.InitProfiler()
	defer cleanup()

	Log.Info("api server initialized")

	rawStore, err := store.NewMongoRawStore(context.Background())
	if err != nil {
		Log.Fatal("fail to connect raw data store : ", err)
	}

	db, err := utils.GetDefaultDBConnection()
	if err != nil {
		Log.Fatal("fail to connect database : ", err)
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("fail to migrate database : ", err)
	}

	completionSink := sink.CompletionSink(sink.NewStdErrSink())
	if utils.IsProdEnv() {
		snsSink, err := sink.NewSnsSink()
		if err != nil {
			Log.Fatal("fail to initialize completion sink : ", err)
		}
		completionSink = snsSink
	}

	orchestrator := cleaner.NewOrchestrator(
		rawStore,
		store.NewGormContentStore(db),
		completionSink,
		cleaner.NoopDuplicateChecker{},
		model.DefaultCleaningOptions(),
	)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))

	router.POST("/clean", server.CleanHandler(orchestrator))
	router.POST("/clean/batch", server.CleanBatchHandler(orchestrator))
	router.GET("/healthcheck", server.HealthcheckHandler(completionSink))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	Log.Info("api server starts up")
	router.Run(":8080")
}
