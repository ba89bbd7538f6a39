// Package config provides configuration management for the video catalog.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to each field in `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, machine API key, default page size, body limit
//   - Auth: JWT secret, token lifetime and issuer
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
