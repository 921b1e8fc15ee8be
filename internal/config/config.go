package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Server содержит настройки HTTP-сервера.
type Server struct {
	Address string `mapstructure:"address"`
	Debug   bool   `mapstructure:"debug"`
}

// Query содержит параметры генерации UPDATE-запросов.
type Query struct {
	TableName     string `mapstructure:"table_name"`
	MaxGroupCodes int    `mapstructure:"max_group_codes"`
	InputFile     string `mapstructure:"input_file"`
	OutputFile    string `mapstructure:"output_file"`
}

// Storage описывает, куда сохраняются файлы с запросами.
type Storage struct {
	Type     string `mapstructure:"type"`
	BasePath string `mapstructure:"basepath"`
	S3       S3     `mapstructure:"s3"`
}

// S3 содержит настройки для S3-совместимого хранилища.
type S3 struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Logging содержит настройки логирования.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config объединяет все разделы конфигурации.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Query   Query   `mapstructure:"query"`
	Storage Storage `mapstructure:"storage"`
	Logging Logging `mapstructure:"logging"`
}

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal", "panic"}

// Load читает конфигурацию из файла config.yaml и окружения.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile читает конфигурацию из указанного файла; пустой путь означает поиск
// config.yaml в стандартных каталогах.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ri-query")
	}

	// Настройка для environment variables
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvironmentVariables(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		// Файла нет: работаем на значениях по умолчанию и переменных окружения
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.debug", false)

	v.SetDefault("query.table_name", "fsi_ri_group_input_detail")
	v.SetDefault("query.max_group_codes", 10)
	v.SetDefault("query.input_file", "ri_columns.xlsx")
	v.SetDefault("query.output_file", "ri_update_queries.txt")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.basepath", "./artifacts")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "ri-query-artifacts")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// bindEnvironmentVariables привязывает переменные окружения к конфигурации
func bindEnvironmentVariables(v *viper.Viper) {
	v.BindEnv("server.address", "APP_SERVER_ADDRESS")
	v.BindEnv("server.debug", "APP_SERVER_DEBUG")

	v.BindEnv("query.table_name", "APP_QUERY_TABLE_NAME")
	v.BindEnv("query.max_group_codes", "APP_QUERY_MAX_GROUP_CODES")
	v.BindEnv("query.input_file", "APP_QUERY_INPUT_FILE")
	v.BindEnv("query.output_file", "APP_QUERY_OUTPUT_FILE")

	v.BindEnv("storage.type", "APP_STORAGE_TYPE")
	v.BindEnv("storage.basepath", "APP_STORAGE_BASEPATH")
	v.BindEnv("storage.s3.region", "APP_STORAGE_S3_REGION")
	v.BindEnv("storage.s3.bucket", "APP_STORAGE_S3_BUCKET")
	v.BindEnv("storage.s3.endpoint", "APP_STORAGE_S3_ENDPOINT")
	v.BindEnv("storage.s3.access_key", "APP_STORAGE_S3_ACCESS_KEY")
	v.BindEnv("storage.s3.secret_key", "APP_STORAGE_S3_SECRET_KEY")

	v.BindEnv("logging.level", "APP_LOGGING_LEVEL")
	v.BindEnv("logging.format", "APP_LOGGING_FORMAT")
}

// validateConfig проверяет корректность конфигурации
func validateConfig(cfg Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	if cfg.Query.TableName == "" {
		return fmt.Errorf("query table name cannot be empty")
	}
	if cfg.Query.MaxGroupCodes < 1 {
		return fmt.Errorf("query max_group_codes must be at least 1, got: %d", cfg.Query.MaxGroupCodes)
	}

	if cfg.Storage.Type != "local" && cfg.Storage.Type != "s3" {
		return fmt.Errorf("storage type must be 'local' or 's3', got: %s", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "local" && cfg.Storage.BasePath == "" {
		return fmt.Errorf("storage basepath cannot be empty for local storage")
	}
	if cfg.Storage.Type == "s3" {
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("S3 region cannot be empty")
		}
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
	}

	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Logging.Level)) {
		return fmt.Errorf("invalid logging level: %s. Valid levels: %v", cfg.Logging.Level, validLogLevels)
	}

	return nil
}

// IsDevelopment возвращает true, если приложение запущено в режиме разработки
func (c Config) IsDevelopment() bool {
	return c.Server.Debug
}

// String возвращает строковое представление конфигурации (без чувствительных данных)
func (c Config) String() string {
	return fmt.Sprintf("Config{Server: %+v, Query: %+v, Storage: {Type: %s, BasePath: %s, S3: {Region: %s, Bucket: %s, Credentials: [HIDDEN]}}, Logging: %+v}",
		c.Server, c.Query, c.Storage.Type, c.Storage.BasePath, c.Storage.S3.Region, c.Storage.S3.Bucket, c.Logging)
}
