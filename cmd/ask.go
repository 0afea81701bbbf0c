package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/chat"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask Quizy a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()
		if d.provider == nil {
			return errNoLLM
		}

		conv := chat.NewConversation(chat.NewLLMResponder(d.provider))
		reply, err := conv.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(reply.Text)
		return nil
	},
}
