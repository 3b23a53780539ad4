// Package config provides configuration management for the catalog mirror.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Every key is registered from the `mapstructure` and `default`
// struct tags of the partial configurations, so a bare environment is enough to run.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: catalog database driver and connection details
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: Logging level and format
//   - Remote: remote catalog API credentials, artist ids and paging
//   - Sync: prefetch and stray sweep behaviour
//   - Storefront: image size and listing cache TTL
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Remote.BaseURL)
package config
