package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/pfsquare/library-service/pkg/kafka"
	"github.com/pfsquare/library-service/pkg/logger"
	"github.com/pfsquare/library-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type Lending struct {
	// GraceDays is how long a borrower keeps a book before landing on the
	// defaulter list. The committee has run it at both 7 and 14.
	GraceDays int `yaml:"graceDays" envconfig:"GRACE_DAYS" default:"14"`
	// StaffKey is the shared passphrase of the library volunteers.
	StaffKey string `yaml:"staffKey" envconfig:"STAFF_KEY"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Lending  Lending      `yaml:"lending"`
	Kafka    kafka.Config `yaml:"kafka"`
	Database postgres.DB  `yaml:"db"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
