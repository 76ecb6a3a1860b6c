package main

import (
	"log"
	"os"
	"strconv"

	"github.com/vincentiusjacob/portfolio/internal/mail"
)

// Config is read from the environment; .env is loaded by godotenv/autoload.
type Config struct {
	Port         string
	DBPath       string
	ContentFile  string
	TemplateGlob string

	Mail mail.Config

	AdminUsername string
	AdminPassword string

	SceneFPS      int
	SceneSeed     uint64
	TrackVisitors bool
}

func loadConfig() Config {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		DBPath:       getenv("DB_PATH", "portfolio.db"),
		ContentFile:  os.Getenv("CONTENT_FILE"),
		TemplateGlob: getenv("TEMPLATE_GLOB", "templates/*"),
		Mail: mail.Config{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         getenv("MAIL_FROM", "Portfolio <onboarding@resend.dev>"),
			To:           getenv("MAIL_TO", "icencodes@gmail.com"),
			SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getenv("SMTP_PORT", "587"),
			SMTPUser:     os.Getenv("SMTP_USER"),
			SMTPPass:     os.Getenv("SMTP_PASS"),
		},
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SceneFPS:      60,
		TrackVisitors: true,
	}

	if v := os.Getenv("SCENE_FPS"); v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil || fps <= 0 || fps > 240 {
			log.Printf("Ignoring invalid SCENE_FPS %q", v)
		} else {
			cfg.SceneFPS = fps
		}
	}
	if v := os.Getenv("SCENE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			log.Printf("Ignoring invalid SCENE_SEED %q", v)
		} else {
			cfg.SceneSeed = seed
		}
	}
	if v := os.Getenv("TRACK_VISITORS"); v != "" {
		track, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("Ignoring invalid TRACK_VISITORS %q", v)
		} else {
			cfg.TrackVisitors = track
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
