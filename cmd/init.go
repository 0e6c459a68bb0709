package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	tt "github.com/jslinters/jlin/internal/types"
	"github.com/jslinters/jlin/lint"
)

// initCmd: jlin init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new linter configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		path := cfgFile
		if path == "" {
			path = ".jlin.yaml"
		}
		fmt.Printf("Configuration file created/updated: %s\n", path)
	},
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = ".jlin.yaml"
	}

	// Create a yaml file with rules
	config := lint.Config{
		Name: "jlin",
		Rules: map[string]tt.ConfigRule{
			"prefer-const": {
				Severity: tt.SeverityWarning,
				Options: map[string]any{
					"destructuring":          "any",
					"ignoreReadBeforeAssign": false,
				},
			},
			"no-var": {
				Severity: tt.SeverityWarning,
			},
		},
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(configurationPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	if err != nil {
		return err
	}

	return nil
}
