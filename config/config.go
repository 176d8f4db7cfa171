package config

type Config struct {
	Server   Server   `yaml:"server" validate:"required"`
	Database Database `yaml:"storage" validate:"required"`
	Auth     Auth     `yaml:"auth" validate:"required"`
	Media    Media    `yaml:"media" validate:"required"`
	Sentry   Sentry   `yaml:"sentry"`
}

type Server struct {
	Port       string `yaml:"port" comment:"Server Port" validate:"required"`
	Env        string `yaml:"env" comment:"Server Environment" validate:"required"`
	CORSOrigin string `yaml:"cors_origin" default:"*" comment:"Allowed CORS origin"`
	PublicURL  string `yaml:"public_url" default:"http://localhost:8080/" comment:"Public URL of the API, used in the OpenAPI document"`
}

type Database struct {
	DatabaseURL string `yaml:"database_url" comment:"Database URL" validate:"required"`
	RedisURL    string `yaml:"redis_url" comment:"Redis URL" validate:"required"`
}

type Auth struct {
	SessionPublicKey string `yaml:"session_public_key" comment:"PEM encoded public key used to verify session tokens from the identity provider" validate:"required"`
	Issuer           string `yaml:"issuer" comment:"Expected issuer of session tokens, empty to skip the check"`
	WebhookSecret    string `yaml:"webhook_secret" comment:"Signing secret of the identity provider webhook (whsec_...)" validate:"required"`
}

type Media struct {
	AccountID         string `yaml:"account_id" comment:"Media provider account ID" validate:"required"`
	ImagesToken       string `yaml:"images_token" comment:"API token for the image service" validate:"required"`
	StreamToken       string `yaml:"stream_token" comment:"API token for the video service" validate:"required"`
	APIBaseURL        string `yaml:"api_base_url" default:"https://api.cloudflare.com/client/v4" comment:"Base URL of the media provider API"`
	PollAttempts      int    `yaml:"poll_attempts" default:"5" comment:"Number of times to poll a video for readiness"`
	PollIntervalMilli int    `yaml:"poll_interval_ms" default:"1000" comment:"Delay between video readiness polls"`
}

type Sentry struct {
	DSN        string  `yaml:"dsn" comment:"Sentry DSN, empty to disable error reporting"`
	SampleRate float64 `yaml:"sample_rate" default:"1.0" comment:"Error event sample rate"`
}
