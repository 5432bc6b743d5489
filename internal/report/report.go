package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/toolrl/internal/dataset"
	"github.com/signalnine/toolrl/internal/record"
	"github.com/signalnine/toolrl/internal/result"
)

type SplitSummary struct {
	Source          string   `json:"source"`
	Split           string   `json:"split"`
	Rows            int      `json:"rows"`
	ContiguousIndex bool     `json:"contiguous_index"`
	Abilities       []string `json:"abilities"`
	MeanQuestionLen float64  `json:"mean_question_len"`
	Issues          []string `json:"issues,omitempty"`
}

// Generate reads every converted split listed by the manifests in dir and
// writes a summary.
func Generate(dir, format string, w io.Writer) error {
	summaries, err := Summarize(dir)
	if err != nil {
		return err
	}

	switch format {
	case "markdown":
		return writeMarkdown(summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, w)
	}
}

func Summarize(dir string) ([]SplitSummary, error) {
	manifests, err := result.FindManifests(dir)
	if err != nil {
		return nil, err
	}
	if len(manifests) == 0 {
		return nil, fmt.Errorf("no manifests found in %s", dir)
	}

	var summaries []SplitSummary
	for _, path := range manifests {
		m, err := result.ReadManifest(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, s := range m.Splits {
			records, err := dataset.ReadRecords(filepath.Join(dir, s.File))
			if err != nil {
				return nil, err
			}
			sum := summarize(m.Source, s.Name, records)
			if len(records) != s.Rows {
				sum.Issues = append(sum.Issues, fmt.Sprintf("manifest lists %d rows, file has %d", s.Rows, len(records)))
			}
			summaries = append(summaries, sum)
		}
	}
	return summaries, nil
}

func summarize(source, split string, records []record.TrainingRecord) SplitSummary {
	abilities := map[string]bool{}
	var questionLen int
	for i := range records {
		abilities[records[i].Ability] = true
		questionLen += len(records[i].ExtraInfo.Question)
	}
	sum := SplitSummary{
		Source:          source,
		Split:           split,
		Rows:            len(records),
		ContiguousIndex: contiguous(records),
		Issues:          Check(records, source, split),
	}
	for a := range abilities {
		sum.Abilities = append(sum.Abilities, a)
	}
	sort.Strings(sum.Abilities)
	if len(records) > 0 {
		sum.MeanQuestionLen = float64(questionLen) / float64(len(records))
	}
	return sum
}

func contiguous(records []record.TrainingRecord) bool {
	for i := range records {
		if records[i].ExtraInfo.Index != int64(i) {
			return false
		}
	}
	return true
}

// Check returns the invariant violations found in one converted split.
func Check(records []record.TrainingRecord, source, split string) []string {
	var issues []string
	if !contiguous(records) {
		issues = append(issues, "extra_info.index is not the contiguous range 0..n-1")
	}
	for i := range records {
		r := &records[i]
		if r.DataSource != source {
			issues = append(issues, fmt.Sprintf("row %d: data_source %q, want %q", i, r.DataSource, source))
		}
		if r.ExtraInfo.Split != split {
			issues = append(issues, fmt.Sprintf("row %d: split %q, want %q", i, r.ExtraInfo.Split, split))
		}
		if len(r.Prompt) != 2 || r.Prompt[0].Role != record.RoleSystem || r.Prompt[1].Role != record.RoleUser {
			issues = append(issues, fmt.Sprintf("row %d: prompt is not [system, user]", i))
		} else if r.UserContent() != r.ExtraInfo.Question {
			issues = append(issues, fmt.Sprintf("row %d: user turn differs from extra_info.question", i))
		}
		if r.RewardModel.Style != record.StyleRule {
			issues = append(issues, fmt.Sprintf("row %d: reward_model.style %q", i, r.RewardModel.Style))
		}
		if strings.TrimSpace(r.RewardModel.GroundTruth) == "" {
			issues = append(issues, fmt.Sprintf("row %d: empty ground truth", i))
		}
	}
	return issues
}

func writeTable(summaries []SplitSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tSPLIT\tROWS\tINDEX\tABILITIES\tMEAN QUESTION\tISSUES")
	fmt.Fprintln(tw, strings.Repeat("-", 80))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%.0f\t%d\n",
			s.Source, s.Split, s.Rows, indexLabel(s.ContiguousIndex), strings.Join(s.Abilities, ","), s.MeanQuestionLen, len(s.Issues))
	}
	return tw.Flush()
}

func writeMarkdown(summaries []SplitSummary, w io.Writer) error {
	fmt.Fprintln(w, "| Source | Split | Rows | Index | Abilities | Mean Question | Issues |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %s | %d | %s | %s | %.0f | %d |\n",
			s.Source, s.Split, s.Rows, indexLabel(s.ContiguousIndex), strings.Join(s.Abilities, ","), s.MeanQuestionLen, len(s.Issues))
	}
	return nil
}

func writeJSON(summaries []SplitSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}

func indexLabel(ok bool) string {
	if ok {
		return "contiguous"
	}
	return "gaps"
}
