package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ResetTokenMaxAge is how long a password-reset token stays redeemable.
const ResetTokenMaxAge = 3600 * time.Second

type (
	MailConfig struct {
		Server        string
		Port          int
		UseTLS        bool
		Username      string
		Password      string
		DefaultSender mail.Address
		SendTimeout   time.Duration
	}

	Config struct {
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool

		AppName   string
		SecretKey string
		Addr      string

		DatabaseURL     string
		UploadRoot      string
		FrontendBaseURL string
		CatalogPath     string

		SessionLifetime time.Duration // "remember me" cookie lifetime

		Mail           MailConfig
		SendgridAPIKey string
		RollbarToken   string
	}
)

var Conf *Config

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("app_name", "Alpha University")
	v.SetDefault("addr", ":8000")
	v.SetDefault("secret_key", "dev-key-123")
	v.SetDefault("database_url", "postgres://localhost/university?sslmode=disable")
	v.SetDefault("upload_root", filepath.Join("uploads", "lectures"))
	v.SetDefault("frontend_base_url", "http://localhost:8000")
	v.SetDefault("catalog_path", "")
	v.SetDefault("session_lifetime", 7*24*time.Hour)
	v.SetDefault("mail_server", "")
	v.SetDefault("mail_port", 587)
	v.SetDefault("mail_use_tls", true)
	v.SetDefault("mail_username", "")
	v.SetDefault("mail_password", "")
	v.SetDefault("mail_default_sender", "noreply@alphauniversity.edu")
	v.SetDefault("mail_send_timeout", 10*time.Second)
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("rollbar_token", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        env == "TEST",
		AppName:         v.GetString("app_name"),
		SecretKey:       v.GetString("secret_key"),
		Addr:            v.GetString("addr"),
		DatabaseURL:     v.GetString("database_url"),
		UploadRoot:      v.GetString("upload_root"),
		FrontendBaseURL: v.GetString("frontend_base_url"),
		CatalogPath:     v.GetString("catalog_path"),
		SessionLifetime: v.GetDuration("session_lifetime"),
		Mail: MailConfig{
			Server:        v.GetString("mail_server"),
			Port:          v.GetInt("mail_port"),
			UseTLS:        v.GetBool("mail_use_tls"),
			Username:      v.GetString("mail_username"),
			Password:      v.GetString("mail_password"),
			DefaultSender: mail.Address{Name: v.GetString("app_name"), Address: v.GetString("mail_default_sender")},
			SendTimeout:   v.GetDuration("mail_send_timeout"),
		},
		SendgridAPIKey: v.GetString("sendgrid_api_key"),
		RollbarToken:   v.GetString("rollbar_token"),
	}
}
