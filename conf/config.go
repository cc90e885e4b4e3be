package conf

/*
   This is a package that wraps the viper, a package designed to handle config
   files, for the healthcare facade.

   Every key is resolved in this order:
   1. Values placed in memory through SetEnv (tests only).
   2. The process environment.
   3. The optional local.env file found in the directory named by FACADE_CONFIG_DIR.
   4. The defaults registered in setDefaults.

   Assumptions:
   1. The configuration file is a env file
   2. The configuration file, once it is made available to the application,
   will stay immutable during the uptime of the application (exception is test)
*/

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// An instance of the viper struct containing the conf information. Only made
// accessible through public functions GetEnv, SetEnv, etc.
var envVars *viper.Viper

const (
	configgood    uint8 = 0
	configbad     uint8 = 1
	noconfigfound uint8 = 2
)

var state uint8 = configgood

// Config holds the settings needed to start either listener.
type Config struct {
	Port       string `mapstructure:"FACADE_PORT"`
	RouterPort string `mapstructure:"FACADE_ROUTER_PORT"`

	HospitalBackendURL   string `mapstructure:"HOSPITAL_BACKEND_URL"`
	PaymentBackendURL    string `mapstructure:"PAYMENT_BACKEND_URL"`
	GrandOakBackendURL   string `mapstructure:"GRANDOAK_BACKEND_URL"`
	ClemencyBackendURL   string `mapstructure:"CLEMENCY_BACKEND_URL"`
	PineValleyBackendURL string `mapstructure:"PINEVALLEY_BACKEND_URL"`

	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	ReadTimeout    time.Duration `mapstructure:"FACADE_READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"FACADE_WRITE_TIMEOUT"`
	IdleTimeout    time.Duration `mapstructure:"FACADE_IDLE_TIMEOUT"`
}

func init() {
	envVars = setup(os.Getenv("FACADE_CONFIG_DIR"))
}

/*
   setup builds the viper instance. Environment variables are always consulted;
   the env file is only read when dir is not empty.
*/
func setup(dir string) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if dir == "" {
		state = noconfigfound
		return v
	}

	v.SetConfigName("local")
	v.SetConfigType("env")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			state = noconfigfound
		} else {
			state = configbad
		}
		return v
	}

	state = configgood
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("FACADE_PORT", "8290")
	v.SetDefault("FACADE_ROUTER_PORT", "8291")

	v.SetDefault("HOSPITAL_BACKEND_URL", "http://localhost:9090")
	v.SetDefault("PAYMENT_BACKEND_URL", "http://localhost:9090/healthcare/payments")
	v.SetDefault("GRANDOAK_BACKEND_URL", "http://localhost:9090/grandoaks/categories")
	v.SetDefault("CLEMENCY_BACKEND_URL", "http://localhost:9090/clemency/categories")
	v.SetDefault("PINEVALLEY_BACKEND_URL", "http://localhost:9090/pinevalley/categories")

	v.SetDefault("BACKEND_TIMEOUT", 30*time.Second)
	v.SetDefault("FACADE_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("FACADE_WRITE_TIMEOUT", 60*time.Second)
	v.SetDefault("FACADE_IDLE_TIMEOUT", 120*time.Second)

	v.SetDefault("FACADE_HEALTH_CACHE_SECONDS", 10)

	v.SetDefault("FACADE_LOG_LEVEL", "info")
	v.SetDefault("DEPLOYMENT_TARGET", "local")
}

// GetEnv retrieves the value stored in conf. If it does not exist "" is returned.
func GetEnv(key string) string {
	return envVars.GetString(key)
}

// LookupEnv acts like os.LookupEnv, but also considers the env file and defaults.
func LookupEnv(key string) (string, bool) {
	value := envVars.GetString(key)
	return value, value != ""
}

// GetEnvInt returns the integer stored under key, or defaultVal when the key is
// missing or not a number.
func GetEnvInt(key string, defaultVal int) int {
	if v, ok := LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// SetEnv adds key values into conf. This function should only be used in this
// package itself or in tests. The protect parameter is there to ensure developers
// knowingly use it in the appropriate scope.
func SetEnv(protect *testing.T, key string, value string) error {
	envVars.Set(key, value)
	return nil
}

// UnsetEnv "unsets" a variable in conf and in the environment. Like SetEnv,
// this should only be used in this package itself or in tests.
func UnsetEnv(protect *testing.T, key string) error {
	envVars.Set(key, "")
	return os.Unsetenv(key)
}

// LoadConfig resolves the typed listener and backend configuration.
func LoadConfig() (*Config, error) {
	if state == configbad {
		return nil, errors.New("failed to parse local.env found in FACADE_CONFIG_DIR")
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := envVars.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal facade config")
	}

	required := map[string]string{
		"HOSPITAL_BACKEND_URL":   cfg.HospitalBackendURL,
		"PAYMENT_BACKEND_URL":    cfg.PaymentBackendURL,
		"GRANDOAK_BACKEND_URL":   cfg.GrandOakBackendURL,
		"CLEMENCY_BACKEND_URL":   cfg.ClemencyBackendURL,
		"PINEVALLEY_BACKEND_URL": cfg.PineValleyBackendURL,
	}
	for key, value := range required {
		if value == "" {
			return nil, errors.Errorf("no value provided for %s", key)
		}
	}

	return &cfg, nil
}
