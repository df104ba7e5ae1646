package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coursehand/coursehand/prompt"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage the prompt template library",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompt templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(flagLogLevel)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.Settings()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, t := range s.Prompts {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.Description)
		}
		return w.Flush()
	},
}

var (
	flagPromptName string
	flagPromptDesc string
	flagPromptFile string
)

var promptsAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a prompt template",
	Long: `Add stores a new template. The content comes from the argument or
from --file. Templates substitute {{Title}}, {{URL}} and
{{Transcript}}; unknown tokens pass through untouched.`,
	Example: `  coursehand prompts add --name "Quiz me" 'Write a quiz about: {{Transcript}}'
  coursehand prompts add --name "Deep dive" --file prompt.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(flagLogLevel)

		var content string
		switch {
		case flagPromptFile != "":
			data, err := os.ReadFile(flagPromptFile)
			if err != nil {
				return err
			}
			content = string(data)
		case len(args) == 1:
			content = args[0]
		default:
			return fmt.Errorf("template content required (argument or --file)")
		}
		if strings.TrimSpace(flagPromptName) == "" {
			return fmt.Errorf("--name is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.Settings()
		if err != nil {
			return err
		}

		tpl := prompt.Template{
			ID:          uuid.NewString(),
			Name:        flagPromptName,
			Description: flagPromptDesc,
			Content:     content,
		}
		if err := s.AddPrompt(tpl); err != nil {
			return err
		}
		if err := st.SaveSettings(s); err != nil {
			return err
		}

		fmt.Println(tpl.ID)
		return nil
	},
}

var promptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a prompt template",
	Long: `Delete removes a template by id. The built-in default template and
the sole remaining template cannot be deleted; settings referencing the
deleted template fall back to the default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(flagLogLevel)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.Settings()
		if err != nil {
			return err
		}
		if err := s.DeletePrompt(args[0]); err != nil {
			return err
		}
		return st.SaveSettings(s)
	},
}

func init() {
	promptsAddCmd.Flags().StringVar(&flagPromptName, "name", "", "Template name (required)")
	promptsAddCmd.Flags().StringVar(&flagPromptDesc, "description", "", "Template description")
	promptsAddCmd.Flags().StringVar(&flagPromptFile, "file", "", "Read template content from a file")

	promptsCmd.AddCommand(promptsListCmd, promptsAddCmd, promptsDeleteCmd)
	rootCmd.AddCommand(promptsCmd)
}
