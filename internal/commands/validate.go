package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ges-reports/gesreport/internal/config"
)

func newValidateCommand() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check report.yaml for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cfgPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", cfgPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", config.FileName, "path to report.yaml")

	return cmd
}

// loadConfig reads, validates and path-resolves a config file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verrs := cfg.Validate(); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("invalid config %s: %s", path, strings.Join(msgs, "; "))
	}
	cfg.ResolvePaths(filepath.Dir(path))
	return cfg, nil
}
