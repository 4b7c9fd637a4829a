package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/log"

	"logistics_control_tower/advisor"
	"logistics_control_tower/config"
)

var (
	askModel   string
	askHistory string
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt...>",
	Short: "Print the assistant answer for a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		responder, err := newResponder(cfg)
		if err != nil {
			return err
		}

		history, herr := advisor.ParseHistory(askHistory)
		if herr != nil {
			log.Warn("[cli] ignoring malformed history: %v", herr)
		}
		reply, err := responder.Respond(cmd.Context(), advisor.Query{
			Prompt:  strings.Join(args, " "),
			History: history,
			Model:   askModel,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askModel, "model", "", "model name echoed with the answer")
	askCmd.Flags().StringVar(&askHistory, "history", "[]", "conversation history as a JSON array")
}
