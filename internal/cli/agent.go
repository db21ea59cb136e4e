package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAgentCmd создаёт группу команд для управления агентами.
func NewAgentCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage agents",
	}

	cmd.AddCommand(
		newAgentListCmd(clientFn, outputFn),
		newAgentCreateCmd(clientFn, outputFn),
	)

	return cmd
}

func newAgentListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			agents, err := client.ListAgents()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "USER", "CREATED"}
			rows := make([][]string, len(agents))
			for i, a := range agents {
				rows[i] = []string{a.ID, a.Name, a.UserID, a.CreatedAt}
			}

			out.Print(headers, rows, agents)
			return nil
		},
	}
}

func newAgentCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			agent, err := client.CreateAgent(CreateAgentRequest{UserID: userID, Name: name})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Agent created: %s", agent.ID))
			out.Print(
				[]string{"ID", "NAME", "USER", "CREATED"},
				[][]string{{agent.ID, agent.Name, agent.UserID, agent.CreatedAt}},
				agent,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "Owner user ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Agent name (required)")
	cmd.MarkFlagRequired("user-id")
	cmd.MarkFlagRequired("name")

	return cmd
}
