package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"logistics_control_tower/advisor"
	"logistics_control_tower/config"
)

var (
	briefFile string
	briefHTML bool
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Print a daily briefing composed from a JSON request",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		var data []byte
		if briefFile == "" || briefFile == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(briefFile)
		}
		if err != nil {
			return err
		}

		req, err := advisor.DecodeBriefing(data)
		if err != nil {
			return err
		}
		text := advisor.ComposeBriefing(req.WithDefaults(time.Now, cfg.DefaultModel))
		if briefHTML {
			if text, err = advisor.ToHTML(text); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	briefCmd.Flags().StringVarP(&briefFile, "file", "f", "", "briefing request JSON file, stdin when empty")
	briefCmd.Flags().BoolVar(&briefHTML, "html", false, "render the briefing as HTML")
}
