package state

import (
	"context"
	"errors"
	"os"
	"time"

	"encore/config"
	"encore/media"
	"encore/reporting"
	"encore/types"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/infinitybotlist/eureka/genconfig"
	"github.com/infinitybotlist/eureka/snippets"
	"github.com/redis/go-redis/v9"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	Pool      *gorm.DB
	Redis     *redis.Client
	Logger    *zap.Logger
	Context   = context.Background()
	Validator = validator.New()
	Config    *config.Config
	Media     media.Uploader
)

// Registers the custom validators used by request bodies.
func SetupValidator() {
	Validator.RegisterValidation("notblank", validators.NotBlank)
	Validator.RegisterValidation("nospaces", snippets.ValidatorNoSpaces)
	Validator.RegisterValidation("https", snippets.ValidatorIsHttps)
	Validator.RegisterValidation("httporhttps", snippets.ValidatorIsHttpOrHttps)
}

// GormConfig is shared by the server, the CLI and tests
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        types.Now,
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// LoadConfig reads and validates a config file, filling in defaults.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c *config.Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errors.New("config file is empty")
	}

	if err := Validator.Struct(c); err != nil {
		return nil, err
	}

	applyDefaults(c)
	return c, nil
}

// ConnectDatabase opens and migrates the Postgres database.
func ConnectDatabase(url string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), GormConfig())
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Setup() {
	SetupValidator()

	genconfig.GenConfig(config.Config{})

	var err error
	Config, err = LoadConfig("config.yaml")
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}

	// Initialize Logger
	Logger = snippets.CreateZap()

	err = reporting.Init(Config.Sentry, Config.Server.Env)
	if err != nil {
		Logger.Error("Failed to initialize error reporting, continuing without it", zap.Error(err))
	}

	// Initalize Gorm connection
	Pool, err = ConnectDatabase(Config.Database.DatabaseURL)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Initialize Redis connection
	rOptions, err := redis.ParseURL(Config.Database.RedisURL)
	if err != nil {
		panic("Failed to parse Redis URL: " + err.Error())
	}

	Redis = redis.NewClient(rOptions)
	if err := Redis.Ping(Context).Err(); err != nil {
		panic("Failed to connect to Redis: " + err.Error())
	}

	Media = media.NewCloudflare(media.CloudflareOptions{
		BaseURL:      Config.Media.APIBaseURL,
		AccountID:    Config.Media.AccountID,
		ImagesToken:  Config.Media.ImagesToken,
		StreamToken:  Config.Media.StreamToken,
		PollAttempts: Config.Media.PollAttempts,
		PollInterval: time.Duration(Config.Media.PollIntervalMilli) * time.Millisecond,
		Logger:       Logger,
	})
}

func applyDefaults(c *config.Config) {
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}

	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost" + c.Server.Port + "/"
	}

	if c.Media.APIBaseURL == "" {
		c.Media.APIBaseURL = media.DefaultBaseURL
	}

	if c.Media.PollAttempts <= 0 {
		c.Media.PollAttempts = media.DefaultPollAttempts
	}

	if c.Media.PollIntervalMilli <= 0 {
		c.Media.PollIntervalMilli = int(media.DefaultPollInterval / time.Millisecond)
	}

	if c.Sentry.SampleRate == 0 {
		c.Sentry.SampleRate = 1
	}
}
