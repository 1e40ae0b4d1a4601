package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Media   MediaConfig
	Admin   AdminConfig
	Session SessionConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MediaConfig holds the hosted media service (Cloudinary) credentials.
type MediaConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	Folder       string
}

// AdminConfig is the single back-office credential. PasswordHash is the tail
// of a bcrypt hash; the "$2a$12$" prefix is fixed by the deployment.
type AdminConfig struct {
	Username     string
	PasswordHash string
	UserID       string
}

type SessionConfig struct {
	Secret      string
	ExpiryHours int
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "mineart")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MEDIA_UPLOAD_PRESET", "mine-art")
	viper.SetDefault("MEDIA_FOLDER", "mine-art")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 12)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DATABASE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Media: MediaConfig{
			CloudName:    viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:       viper.GetString("CLOUDINARY_API_KEY"),
			APISecret:    viper.GetString("CLOUDINARY_API_SECRET"),
			UploadPreset: viper.GetString("MEDIA_UPLOAD_PRESET"),
			Folder:       viper.GetString("MEDIA_FOLDER"),
		},
		Admin: AdminConfig{
			Username:     viper.GetString("ADMIN_USER"),
			PasswordHash: viper.GetString("HASHED_PASSWORD"),
			UserID:       viper.GetString("ADMIN_USER_ID"),
		},
		Session: SessionConfig{
			Secret:      viper.GetString("SESSION_SECRET"),
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}
}
