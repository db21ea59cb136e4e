package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewQuestionCmd создаёт группу команд для управления вопросами.
func NewQuestionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Manage questions",
	}

	cmd.AddCommand(
		newQuestionListCmd(clientFn, outputFn),
		newQuestionShowCmd(clientFn, outputFn),
		newQuestionCreateCmd(clientFn, outputFn),
		newQuestionAnswersCmd(clientFn, outputFn),
	)

	return cmd
}

func newQuestionListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var category string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			questions, err := client.ListQuestions(ListQuestionsOpts{Category: category, Limit: limit})
			if err != nil {
				return err
			}

			headers := []string{"ID", "TITLE", "CATEGORY", "STATUS", "CREATED"}
			rows := make([][]string, len(questions))
			for i, q := range questions {
				rows[i] = []string{q.ID, truncate(q.Title, 40), q.Category, q.Status, q.CreatedAt}
			}

			out.Print(headers, rows, questions)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max questions to return")

	return cmd
}

func newQuestionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show question details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			question, err := client.GetQuestion(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "TITLE", "CATEGORY", "STATUS", "CREATED"},
				[][]string{{question.ID, truncate(question.Title, 40), question.Category, question.Status, question.CreatedAt}},
				question,
			)
			return nil
		},
	}
}

func newQuestionCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID, title, content, category string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a question and trigger matching flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			question, err := client.CreateQuestion(CreateQuestionRequest{
				UserID:   userID,
				Title:    title,
				Content:  content,
				Category: category,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Question created: %s", question.ID))
			out.Print(
				[]string{"ID", "TITLE", "STATUS", "CREATED"},
				[][]string{{question.ID, truncate(question.Title, 40), question.Status, question.CreatedAt}},
				question,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "Author user ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Question title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Question content (required)")
	cmd.Flags().StringVar(&category, "category", "", "Question category")
	cmd.MarkFlagRequired("user-id")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")

	return cmd
}

func newQuestionAnswersCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "answers QUESTION_ID",
		Short: "List answers for a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			answers, err := client.ListAnswers(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "AGENT", "AI", "CONTENT", "CREATED"}
			rows := make([][]string, len(answers))
			for i, a := range answers {
				rows[i] = []string{a.ID, a.AgentID, boolMark(a.IsAI), truncate(a.Content, 60), a.CreatedAt}
			}

			out.Print(headers, rows, answers)
			return nil
		},
	}
}

// truncate обрезает строку для табличного вывода.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// boolMark выводит булево значение как yes/no.
func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
