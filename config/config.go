package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MQConfig struct {
	// URL is optional; when empty the lifecycle event stream is disabled.
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// ReminderConfig configures outbound reminder mail. The recipient is fixed
// per deployment; reminders are best-effort and never retried.
type ReminderConfig struct {
	Recipient string `yaml:"recipient"`
	APIURL    string `yaml:"api_url"`
	APIToken  string `yaml:"api_token"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// TemplateEntry is one row of the fixed daily habit template.
type TemplateEntry struct {
	Name        string `yaml:"name"`
	Deadline    string `yaml:"deadline"` // "HH:MM"
	Description string `yaml:"description"`
}

type Config struct {
	DB       DBConfig        `yaml:"db"`
	Redis    RedisConfig     `yaml:"redis"`
	MQ       MQConfig        `yaml:"mq"`
	JWT      JWTConfig       `yaml:"jwt"`
	Server   ServerConfig    `yaml:"server"`
	Reminder ReminderConfig  `yaml:"reminder"`
	Habits   []TemplateEntry `yaml:"habits"`
}

func Load() *Config {
	f, err := os.Open("config.yaml")
	if err != nil {
		log.Fatalf("failed to open config.yaml: %v", err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config.yaml: %v", err)
	}

	if len(cfg.Habits) == 0 {
		cfg.Habits = DefaultTemplate()
	}
	if cfg.Reminder.APIURL == "" {
		cfg.Reminder.APIURL = "https://send.api.mailtrap.io/api/send"
	}
	if cfg.Reminder.FromName == "" {
		cfg.Reminder.FromName = "Daily Habit Reminder"
	}

	overrideFromEnv(&cfg)

	return &cfg
}

// DefaultTemplate is the built-in ten-entry daily routine used when the
// config file does not declare its own habit list.
func DefaultTemplate() []TemplateEntry {
	return []TemplateEntry{
		{Name: "Wake up", Deadline: "08:00", Description: "Wake up early"},
		{Name: "Brush and Bath", Deadline: "08:05", Description: "Get freshened up"},
		{Name: "Food", Deadline: "08:30", Description: "Have breakfast"},
		{Name: "Read something", Deadline: "09:30", Description: "Read something"},
		{Name: "College or do some work", Deadline: "10:00", Description: "Do some work"},
		{Name: "Lunch", Deadline: "13:30", Description: "Lunch"},
		{Name: "Snack", Deadline: "17:00", Description: "Snack"},
		{Name: "Bath", Deadline: "19:00", Description: "Bath"},
		{Name: "Dinner", Deadline: "20:30", Description: "Eat"},
		{Name: "Sleep", Deadline: "23:59", Description: "Sleep early"},
	}
}

func overrideFromEnv(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	if recipient := os.Getenv("REMINDER_RECIPIENT"); recipient != "" {
		cfg.Reminder.Recipient = recipient
	}
	if token := os.Getenv("MAILTRAP_API_KEY"); token != "" {
		cfg.Reminder.APIToken = token
	}
}
