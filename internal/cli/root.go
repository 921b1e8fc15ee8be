package cli

import (
	"os"

	"ri_query/internal/config"
	"ri_query/internal/logger"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the ri_query command.
func NewRootCommand() *cobra.Command {
	var (
		opts       Options
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "ri_query",
		Short: "Generate randomized UPDATE statements for fsi_ri_group_input_detail",
		Long: `Reads column names from the first five columns of a spreadsheet
(general, rate, transaction, acquisition, input) and writes one UPDATE
statement per category for every v_ri_group_code.

Values left out on the command line are asked for interactively.`,
		Example: `  ri_query
  ri_query --date 31-DEC-2024 --code RI01 --code RI02
  ri_query --input cols.xlsx --output out.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("input") {
				opts.Input = cfg.Query.InputFile
			}
			if !cmd.Flags().Changed("output") {
				opts.Output = cfg.Query.OutputFile
			}

			log := logger.New(cfg)
			log.SetOutput(cmd.ErrOrStderr())

			runner := &Runner{
				Out:      cmd.OutOrStdout(),
				Prompter: newSurveyPrompter(),
				Logger:   log,
				Fs:       afero.NewOsFs(),
			}
			return runner.Run(cmd.Context(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Input, "input", "i", "ri_columns.xlsx", "spreadsheet with the column definitions")
	flags.StringVarP(&opts.Output, "output", "o", "ri_update_queries.txt", "file the statements are written to")
	flags.StringVarP(&opts.Date, "date", "d", "", "fic_mis_date in DD-MON-YYYY form")
	flags.StringArrayVarP(&opts.Codes, "code", "c", nil, "v_ri_group_code, repeat for several codes")
	flags.StringVar(&configPath, "config", "", "config file (default: config.yaml in . or ./config)")

	return cmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// Main runs the CLI and exits the process on failure.
func Main() {
	if err := Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
