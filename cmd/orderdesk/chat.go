package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/orderdesk/internal/cli"
	"github.com/aretw0/orderdesk/internal/presentation/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the order desk from the terminal",
	Long: `Starts an interactive conversation with the order desk.
Sessions are persisted with the configured sessions driver, so a named
--session can be resumed later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		userName, _ := cmd.Flags().GetString("user")
		jsonMode, _ := cmd.Flags().GetBool("json")
		fresh, _ := cmd.Flags().GetBool("fresh")

		if sessionID == "" {
			sessionID = "chat-" + uuid.NewString()[:8]
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		app, err := buildApp(sigCtx)
		if err != nil {
			return err
		}
		defer app.Close()

		if fresh {
			if err := app.Desk.Sessions().Delete(sigCtx, sessionID); err != nil {
				logger.Warn("Failed to reset session", "session_id", sessionID, "err", err)
			}
		}

		opts := cli.ChatOptions{
			SessionID: sessionID,
			UserName:  userName,
			JSON:      jsonMode,
		}
		if !jsonMode {
			opts.Renderer = tui.NewRenderer(os.Stdout)
		}
		return cli.RunChat(sigCtx, app.Desk, os.Stdin, os.Stdout, opts)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "", "Session ID to create or resume (random when empty)")
	chatCmd.Flags().StringP("user", "u", "", "Customer name recorded on orders")
	chatCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON output)")
	chatCmd.Flags().Bool("fresh", false, "Discard any stored state for --session first")
}
