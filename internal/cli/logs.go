package cli

import (
	"github.com/spf13/cobra"
)

// NewLogsCmd создаёт группу команд для просмотра аудита прогонов.
func NewLogsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect agent run logs",
	}

	cmd.AddCommand(newLogsListCmd(clientFn, outputFn))

	return cmd
}

func newLogsListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var questionID, agentID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List run log entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			logs, err := client.ListRunLogs(ListLogsOpts{
				QuestionID: questionID,
				AgentID:    agentID,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "RUN", "NODE", "STATUS", "MODEL", "DETAIL", "CREATED"}
			rows := make([][]string, len(logs))
			for i, l := range logs {
				detail := l.ResponseContent
				if l.Status == "error" {
					detail = l.ErrorMessage
				}
				rows[i] = []string{l.ID, l.FlowRunID, l.NodeID, l.Status, l.Model, truncate(detail, 50), l.CreatedAt}
			}

			out.Print(headers, rows, logs)
			return nil
		},
	}

	cmd.Flags().StringVar(&questionID, "question-id", "", "Filter by question")
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Filter by agent")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max entries to return")

	return cmd
}
