package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/gigx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the template when missing, then initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Configuration: %s\n", configPath)
	r.writePlain("✓ Database: %s\n", config.Database.Path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in home_location and your API credentials in %s\n", configPath)
	r.writePlain("2. Run 'gigx config check' to see which providers are enabled\n")
	r.writePlain("3. Run 'gigx auth spotify' and 'gigx auth google', or just run 'gigx'\n")
	return nil
}

// ConfigCheck reports which sources and providers are usable with the current configuration.
func (r *Runner) ConfigCheck(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.writePlainHeader("Configuration check")

	mark := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "✗"
	}

	validErr := config.Validate()
	if validErr != nil {
		r.writePlain("✗ %v\n", validErr)
	} else {
		r.writePlain("✓ Home location: %s\n", config.HomeLocation)
	}

	r.writePlain("%s Spotify credentials\n", mark(config.Credentials.Spotify.Configured()))

	switch config.Calendar.Source {
	case "ics":
		r.writePlain("%s Calendar: ICS feed %s\n", mark(config.Calendar.ICSURL != ""), config.Calendar.ICSURL)
	default:
		_, statErr := os.Stat(config.Credentials.Google.CredentialsFile)
		r.writePlain("%s Calendar: Google (%s)\n", mark(statErr == nil), config.Credentials.Google.CredentialsFile)
	}

	r.writePlainln("Concert providers:")
	enabled := 0
	for _, status := range config.ProviderStatuses() {
		if status.Enabled {
			enabled++
			r.writePlain("✓ %s\n", status.Name)
			continue
		}
		r.writePlain("✗ %s (%s)\n", status.Name, status.Reason)
	}

	if enabled == 0 {
		return fmt.Errorf("%w: enable at least one provider in %s", shared.ErrNoProviders, r.configPath)
	}
	return validErr
}
