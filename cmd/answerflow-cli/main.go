// Answerflow CLI — инструмент командной строки для работы
// с вопросами, flows, агентами и аудитом через HTTP API.
//
// Использование:
//
//	answerflow [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	question  Управление вопросами
//	flow      Управление flows
//	agent     Управление агентами
//	logs      Аудит прогонов
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Answerflow/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "answerflow",
		Short:         "Answerflow CLI — Q&A automation tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewQuestionCmd(clientFn, outputFn),
		cli.NewFlowCmd(clientFn, outputFn),
		cli.NewAgentCmd(clientFn, outputFn),
		cli.NewLogsCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
