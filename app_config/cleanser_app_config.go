package app_config

import (
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/socialmux/cleanser/model"
)

// This is the cleanser config for daemon execution.
type CleanserAppConfig struct {
	// Name of the SQS queue carrying raw-data-ready notifications.
	NOTIFICATION_QUEUE_NAME string `yaml:"NOTIFICATION_QUEUE_NAME"`
	// How many queue messages one poll asks for.
	NOTIFICATION_RECEIVE_BATCH_SIZE int64 `yaml:"NOTIFICATION_RECEIVE_BATCH_SIZE"`
	// Protective delay between queue polls, in seconds.
	NOTIFICATION_POLL_INTERVAL_SECOND int64 `yaml:"NOTIFICATION_POLL_INTERVAL_SECOND"`
	// Which completion sink to use: "sns", "kafka" or "stderr".
	COMPLETION_SINK string `yaml:"COMPLETION_SINK"`
	// Redis endpoint for duplicate detection. Empty disables the redis
	// checker even when duplicate detection is on.
	DUPLICATE_REDIS_ADDR string `yaml:"DUPLICATE_REDIS_ADDR"`

	// Cleaning options applied to every run started by the daemon.
	CLEANING_OPTIONS model.CleaningOptions `yaml:"CLEANING_OPTIONS"`
}

func ParseCleanserAppConfig(path string) CleanserAppConfig {
	c := CleanserAppConfig{}
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
