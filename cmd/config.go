package cmd

import (
	"errors"
	"fmt"

	"kds/internal/adapters/out/postgres"
	"kds/internal/pkg/errs"
)

const (
	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"

	DefaultMaxOrders = 50
)

type Config struct {
	HTTPPort string

	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string
	DBSQLitePath string

	MaxOrders int

	SequenceBackend string
	RedisAddr       string
	RedisPassword   string

	KafkaHost              string
	KafkaOrderChangedTopic string

	LogLevel string
	LogFile  string

	SimulationAutostart bool
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errList []error

	if c.HTTPPort == "" {
		errList = append(errList, errs.NewValueIsRequiredError("HTTP_PORT"))
	}

	switch c.DBDriver {
	case postgres.DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			errList = append(errList, errs.NewValueIsRequiredError("DB_HOST and DB_NAME"))
		}
	case postgres.DriverSQLite:
		if c.DBSQLitePath == "" {
			errList = append(errList, errs.NewValueIsRequiredError("DB_SQLITE_PATH"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("DB_DRIVER",
			fmt.Errorf("%q is not one of postgres, sqlite", c.DBDriver)))
	}

	if c.MaxOrders < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("MAX_ORDERS", c.MaxOrders, 1, "unbounded"))
	}

	switch c.SequenceBackend {
	case SequenceBackendPostgres:
	case SequenceBackendRedis:
		if c.RedisAddr == "" {
			errList = append(errList, errs.NewValueIsRequiredError("REDIS_ADDR"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("SEQUENCE_BACKEND",
			fmt.Errorf("%q is not one of postgres, redis", c.SequenceBackend)))
	}

	if c.KafkaHost != "" && c.KafkaOrderChangedTopic == "" {
		errList = append(errList, errs.NewValueIsRequiredError("KAFKA_ORDER_CHANGED_TOPIC"))
	}

	return errors.Join(errList...)
}

// DSN is the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == postgres.DriverSQLite {
		return c.DBSQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) KafkaEnabled() bool {
	return c.KafkaHost != ""
}
