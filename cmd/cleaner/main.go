package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/socialmux/cleanser/app_config"
	"github.com/socialmux/cleanser/cleaner"
	"github.com/socialmux/cleanser/engine"
	"github.com/socialmux/cleanser/engine/modules"
	"github.com/socialmux/cleanser/sink"
	"github.com/socialmux/cleanser/store"
	"github.com/socialmux/cleanser/utils"
	"github.com/socialmux/cleanser/utils/dotenv"
	utilFlag "github.com/socialmux/cleanser/utils/flag"
	Logger "github.com/socialmux/cleanser/utils/log"
)

var (
	AppConfigPath *string
	// Configuration to customize binary startup.
	AppConfig app_config.CleanserAppConfig
)

// init() will always be called on before the execution of main function.
func init() {
	AppConfigPath = flag.String("app_config_path", "cmd/cleaner/config.yaml", "path to cleaner app config")
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
}

func NewDogStatsdClient() *statsd.Client {
	statsd, err := statsd.New("127.0.0.1:8125")
	if err != nil {
		panic(err)
	}
	return statsd
}

func NewCompletionSink() sink.CompletionSink {
	switch AppConfig.COMPLETION_SINK {
	case "sns":
		snsSink, err := sink.NewSnsSink()
		if err != nil {
			panic(err)
		}
		return snsSink
	case "kafka":
		return sink.NewKafkaSinkFromEnv()
	default:
		return sink.NewStdErrSink()
	}
}

func NewDuplicateChecker() cleaner.DuplicateChecker {
	if AppConfig.DUPLICATE_REDIS_ADDR == "" {
		return cleaner.NoopDuplicateChecker{}
	}
	return cleaner.NewRedisDuplicateChecker(AppConfig.DUPLICATE_REDIS_ADDR)
}

func main() {
	utilFlag.ParseFlags()
	// Recreate the global log entry so it carries the parsed service flags.
	Logger.InitLogger()

	AppConfig = app_config.ParseCleanserAppConfig(*AppConfigPath)

	rawStore, err := store.NewMongoRawStore(context.Background())
	if err != nil {
		Logger.Log.Fatal("fail to connect raw data store : ", err)
	}

	db, err := utils.GetDefaultDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect database : ", err)
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		Logger.Log.Fatal("fail to migrate database : ", err)
	}

	reader, err := utils.NewSQSMessageQueueReader(AppConfig.NOTIFICATION_QUEUE_NAME, 20)
	if err != nil {
		Logger.Log.Fatal("fail to initialize SQS message queue reader : ", err)
	}

	orchestrator := cleaner.NewOrchestrator(
		rawStore,
		store.NewGormContentStore(db),
		NewCompletionSink(),
		NewDuplicateChecker(),
		AppConfig.CLEANING_OPTIONS,
	)

	eventbus := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)
	ctx, cancel := context.WithCancel(context.Background())

	// Initialize all engine modules here.
	engineModules := []engine.Module{
		// Reporter reports cleaning metrics to datadog for monitoring purpose.
		modules.NewReporter(modules.ReporterConfig{Name: "reporter"}, NewDogStatsdClient(), eventbus),
		// NotificationConsumer polls the raw-data queue and republishes
		// notifications on the EventBus.
		modules.NewNotificationConsumer(
			modules.NotificationConsumerConfig{
				Name:             "notification_consumer",
				ReceiveBatchSize: AppConfig.NOTIFICATION_RECEIVE_BATCH_SIZE,
				PollInterval:     time.Duration(AppConfig.NOTIFICATION_POLL_INTERVAL_SECOND) * time.Second,
			},
			reader,
			eventbus,
		),
		// CleanerModule runs the cleaning pipeline for each notification and
		// publishes results for the reporter.
		modules.NewCleanerModule(
			modules.CleanerModuleConfig{Name: "cleaner"},
			orchestrator,
			eventbus,
		),
	}

	e := engine.NewEngine(engineModules, ctx, cancel, eventbus)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		e.Shutdown()
	}()

	// blocking call.
	e.Run()

	log.Println("engine stopped execution.")
}
