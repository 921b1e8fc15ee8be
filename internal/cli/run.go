package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"ri_query/internal/config"
	"ri_query/internal/domain/query"
	"ri_query/internal/infrastructure/spreadsheet"
	"ri_query/internal/service"
	"ri_query/internal/storage"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options are the values a run may take from flags instead of prompts.
type Options struct {
	Input  string
	Output string
	Date   string
	Codes  []string
}

// Runner executes one batch run: date, columns, group codes, output file.
type Runner struct {
	Out      io.Writer
	Prompter Prompter
	Logger   *logrus.Logger
	Fs       afero.Fs
}

// Run generates the statements, prints them and writes the output file.
func (r *Runner) Run(ctx context.Context, cfg config.Config, opts Options) error {
	date := opts.Date
	if date == "" {
		var err error
		if date, err = r.Prompter.Date(); err != nil {
			return fmt.Errorf("read fic_mis_date: %w", err)
		}
	}
	if err := query.ValidateDate(date); err != nil {
		return err
	}

	reader := spreadsheet.NewXLSX(r.Logger)
	columns, err := r.readColumns(reader, opts.Input)
	if err != nil {
		return err
	}

	codes := opts.Codes
	if len(codes) == 0 {
		if codes, err = r.promptCodes(); err != nil {
			return err
		}
	}

	store, key, err := r.outputStorage(opts.Output)
	if err != nil {
		return err
	}

	// CLI runs are not capped on the number of group codes.
	svc := service.NewQueryService(query.NewBuilder(cfg.Query.TableName), reader, store, r.Logger, 0)

	batch, err := svc.Generate(ctx, service.GenerateRequest{Columns: columns, Date: date, GroupCodes: codes})
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Out, "\nGenerated UPDATE Queries:")
	for _, sql := range batch.SQL() {
		fmt.Fprintln(r.Out, sql)
	}

	if _, err := svc.SaveArtifact(ctx, batch, key); err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintf(r.Out, "\nThe update queries have been written to '%s'.\n", opts.Output)
	return nil
}

func (r *Runner) readColumns(reader service.ColumnReader, path string) (query.ColumnSet, error) {
	f, err := r.Fs.Open(path)
	if err != nil {
		return query.ColumnSet{}, fmt.Errorf("%w: %v", spreadsheet.ErrInvalidSpreadsheet, err)
	}
	defer f.Close()
	return reader.ReadColumns(f)
}

func (r *Runner) promptCodes() ([]string, error) {
	n, err := r.Prompter.GroupCodeCount()
	if err != nil {
		return nil, fmt.Errorf("read group code count: %w", err)
	}

	codes := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		code, err := r.Prompter.GroupCode(i)
		if err != nil {
			return nil, fmt.Errorf("read group code #%d: %w", i, err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// outputStorage roots a local store at the output file's directory.
func (r *Runner) outputStorage(output string) (storage.Storage, string, error) {
	abs, err := filepath.Abs(output)
	if err != nil {
		return nil, "", fmt.Errorf("resolve output path: %w", err)
	}

	local, err := storage.NewLocalStorage(r.Fs, storage.LocalConfig{
		BasePath:   filepath.Dir(abs),
		CreateDirs: true,
	}, r.Logger)
	if err != nil {
		return nil, "", err
	}
	return storage.Wrap(local, r.Logger), filepath.Base(abs), nil
}
