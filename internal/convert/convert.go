// Package convert turns a local math dataset into training records for
// rule-scored RL, one parquet file per split.
package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/signalnine/toolrl/internal/boxed"
	"github.com/signalnine/toolrl/internal/dataset"
	"github.com/signalnine/toolrl/internal/record"
	"github.com/signalnine/toolrl/internal/result"
	"github.com/signalnine/toolrl/internal/runner"
)

var ErrEmptySplit = errors.New("empty split")

// Splits are converted in this order.
var Splits = []string{dataset.SplitTrain, dataset.SplitTest}

var features = []string{"data_source", "prompt", "ability", "reward_model", "extra_info"}

type Options struct {
	DatasetPath string
	OutputDir   string

	// Accepted for command-line compatibility; they do not change the output.
	Level               string
	AddExecutionPrompt  bool
	DetailedInstruction bool

	// Parallel bounds how many splits are processed at once.
	Parallel int

	Stdout io.Writer
	Logger *zap.Logger
}

// SourceName is the data_source tag and output file prefix for a dataset path.
func SourceName(datasetPath string) string {
	return filepath.Base(filepath.Clean(datasetPath))
}

// MapSplit converts the rows of one split. Row i becomes the record with
// extra_info.index i.
func MapSplit(source, split string, rows []dataset.SourceRow) ([]record.TrainingRecord, error) {
	records := make([]record.TrainingRecord, len(rows))
	for i, row := range rows {
		answer, err := boxed.ExtractSolution(row.Solution)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: extracting ground truth: %w", split, i, err)
		}
		records[i] = record.New(source, split, i, row.Problem, answer)
	}
	return records, nil
}

func Run(ctx context.Context, opts *Options) (*result.Manifest, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger.Debug("options without effect on output",
		zap.String("level", opts.Level),
		zap.Bool("add_execution_prompt", opts.AddExecutionPrompt),
		zap.Bool("detailed_instruction", opts.DetailedInstruction))

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	logger.Info(fmt.Sprintf("Loading the %s dataset...", opts.DatasetPath))
	found, err := dataset.Discover(opts.DatasetPath)
	if err != nil {
		return nil, err
	}
	for _, split := range Splits {
		if _, ok := found[split]; !ok {
			return nil, fmt.Errorf("%w %s: split %q not found (have %s)",
				dataset.ErrLoad, opts.DatasetPath, split, strings.Join(found.Names(), ", "))
		}
	}
	source := SourceName(opts.DatasetPath)

	var mu sync.Mutex
	converted := make(map[string][]record.TrainingRecord, len(Splits))
	var jobs []runner.Job
	for _, split := range Splits {
		split := split
		jobs = append(jobs, func(ctx context.Context) error {
			rows, err := dataset.ReadSourceRows(found[split])
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := MapSplit(source, split, rows)
			if err != nil {
				return err
			}
			logger.Info("mapped split", zap.String("split", split), zap.Int("rows", len(records)))
			mu.Lock()
			converted[split] = records
			mu.Unlock()
			return nil
		})
	}
	if errs := runner.RunPool(ctx, opts.Parallel, jobs); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	train := converted[dataset.SplitTrain]
	printSummary(stdout, len(train))
	if len(train) == 0 {
		return nil, fmt.Errorf("%w %s: train split is empty", ErrEmptySplit, opts.DatasetPath)
	}
	if err := printRecord(stdout, &train[0]); err != nil {
		return nil, err
	}

	manifest := &result.Manifest{
		Source:      source,
		DatasetPath: opts.DatasetPath,
		CreatedAt:   time.Now().UTC(),
	}
	jobs = nil
	for _, split := range Splits {
		split := split
		path := result.OutputFile(opts.OutputDir, source, split)
		manifest.Splits = append(manifest.Splits, result.SplitResult{
			Name: split,
			File: filepath.Base(path),
			Rows: len(converted[split]),
		})
		jobs = append(jobs, func(context.Context) error {
			if err := dataset.WriteRecords(path, converted[split]); err != nil {
				return err
			}
			logger.Info("wrote split", zap.String("split", split), zap.String("path", path))
			return nil
		})
	}
	if errs := runner.RunPool(ctx, opts.Parallel, jobs); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := result.WriteManifest(opts.OutputDir, manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func printSummary(w io.Writer, rows int) {
	quoted := make([]string, len(features))
	for i, f := range features {
		quoted[i] = "'" + f + "'"
	}
	fmt.Fprintf(w, "Dataset({\n    features: [%s],\n    num_rows: %d\n})\n", strings.Join(quoted, ", "), rows)
}

func printRecord(w io.Writer, r *record.TrainingRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("printing sample record: %w", err)
	}
	return nil
}
