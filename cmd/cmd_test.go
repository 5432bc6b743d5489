package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/signalnine/toolrl/internal/config"
	"github.com/signalnine/toolrl/internal/dataset"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	err := Execute(root, append(args, "--log-level", "error"))
	return out.String(), err
}

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	for split, n := range map[string]int{"train": 3, "test": 2} {
		rows := make([]dataset.SourceRow, n)
		for i := range rows {
			rows[i] = dataset.SourceRow{
				Problem:  fmt.Sprintf("%s question %d", split, i),
				Solution: fmt.Sprintf(`so \boxed{%d}`, i),
			}
		}
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
		require.NoError(t, dataset.WriteSourceRows(filepath.Join(dir, "data", split+"-00000-of-00001.parquet"), rows))
	}
}

func TestConvertInspectValidate(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tiny-math")
	writeFixture(t, src)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, "convert",
		"--local_dataset_path", src,
		"--local_dir", outDir,
		"--level", "easy",
		"--add_execution_prompt",
		"--detailed_instruction")
	require.NoError(t, err, out)
	assert.Contains(t, out, "num_rows: 3")
	assert.FileExists(t, filepath.Join(outDir, "tiny-math_train.parquet"))
	assert.FileExists(t, filepath.Join(outDir, "tiny-math_test.parquet"))

	out, err = execute(t, "inspect", outDir, "--format", "markdown")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| tiny-math | train | 3 | contiguous | math |")

	out, err = execute(t, "validate", outDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "ok    tiny-math/test (2 rows)")
}

func TestConvertRequiresDatasetPath(t *testing.T) {
	_, err := execute(t, "convert", "--local_dir", t.TempDir())
	assert.Error(t, err)
}

func TestConvertFailsOnMissingBoxed(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "data"), 0o755))
	for _, split := range []string{"train", "test"} {
		require.NoError(t, dataset.WriteSourceRows(filepath.Join(src, "data", split+".parquet"), []dataset.SourceRow{
			{Problem: "q", Solution: "no answer marker"},
		}))
	}
	_, err := execute(t, "convert", "--local_dataset_path", src, "--local_dir", t.TempDir())
	assert.Error(t, err)
}

func TestConfigShowDefaults(t *testing.T) {
	out, err := execute(t, "config", "show", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.Actor.ActionStopTokens)
	got.Actor.ActionStopTokens = nil
	assert.Equal(t, config.DefaultAgentActor(), got.Actor)
	assert.Contains(t, out, "tool_server_url: null")
}

func TestConfigShowFile(t *testing.T) {
	out, err := execute(t, "config", "show", "--config", "../testdata/full.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "max_turns: 4")
	assert.Contains(t, out, "request_type: batch")
}

func TestConfigShowInvalid(t *testing.T) {
	_, err := execute(t, "config", "show", "--config", "../testdata/invalid.yaml")
	assert.Error(t, err)
}

func TestConvertBoolFlagValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"space separated false", []string{"--add_execution_prompt", "false", "--detailed_instruction", "false"}},
		{"space separated true", []string{"--add_execution_prompt", "True", "--detailed_instruction", "TRUE"}},
		{"equals", []string{"--add_execution_prompt=false", "--detailed_instruction=true"}},
		{"bare", []string{"--add_execution_prompt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filepath.Join(t.TempDir(), "tiny-math")
			writeFixture(t, src)
			outDir := t.TempDir()

			args := append([]string{"convert", "--local_dataset_path", src, "--local_dir", outDir}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err, out)
			assert.FileExists(t, filepath.Join(outDir, "tiny-math_train.parquet"))
		})
	}
}

func TestJoinBoolValues(t *testing.T) {
	bools := boolFlags(NewRootCmd())
	require.True(t, bools["--add_execution_prompt"])
	require.True(t, bools["--detailed_instruction"])
	require.False(t, bools["--local_dir"])

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			"joins bool value",
			[]string{"convert", "--add_execution_prompt", "false", "--level", "easy"},
			[]string{"convert", "--add_execution_prompt=false", "--level", "easy"},
		},
		{
			"lowercases value",
			[]string{"--detailed_instruction", "True"},
			[]string{"--detailed_instruction=true"},
		},
		{
			"leaves non-bool next arg",
			[]string{"--add_execution_prompt", "--local_dir", "out"},
			[]string{"--add_execution_prompt", "--local_dir", "out"},
		},
		{
			"leaves string flags",
			[]string{"--level", "false"},
			[]string{"--level", "false"},
		},
		{
			"trailing bool flag",
			[]string{"convert", "--add_execution_prompt"},
			[]string{"convert", "--add_execution_prompt"},
		},
		{
			"stops at double dash",
			[]string{"--", "--add_execution_prompt", "false"},
			[]string{"--", "--add_execution_prompt", "false"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinBoolValues(tt.args, bools))
		})
	}
}

func TestConvertOutputDirFromConfig(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tiny-math")
	writeFixture(t, src)
	outDir := filepath.Join(t.TempDir(), "configured")
	cfgPath := filepath.Join(t.TempDir(), "toolrl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("data:\n  output_dir: %q\n", outDir)), 0o644))

	out, err := execute(t, "convert", "--config", cfgPath, "--local_dataset_path", src)
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(outDir, "tiny-math_train.parquet"))
	assert.FileExists(t, filepath.Join(outDir, "tiny-math_test.parquet"))

	out, err = execute(t, "inspect", "--config", cfgPath, "--format", "markdown")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| tiny-math | test | 2 | contiguous | math |")

	flagDir := t.TempDir()
	out, err = execute(t, "convert", "--config", cfgPath, "--local_dataset_path", src, "--local_dir", flagDir)
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(flagDir, "tiny-math_train.parquet"))
}

func TestConvertInvalidConfig(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tiny-math")
	writeFixture(t, src)
	_, err := execute(t, "convert", "--config", "../testdata/invalid.yaml", "--local_dataset_path", src)
	assert.Error(t, err)
}

func TestConfigShowJSON(t *testing.T) {
	out, err := execute(t, "config", "show", "--format", "json", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, *config.Default(), got)
	assert.Contains(t, out, `"tool_server_url": null`)
	assert.Contains(t, out, `"request_type": "batch"`)
	assert.Contains(t, out, `"output_dir": "data/mathcoder"`)
}

func TestConfigShowUnknownFormat(t *testing.T) {
	_, err := execute(t, "config", "show", "--format", "toml", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
