package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Actor AgentActorConfig `yaml:"actor" json:"actor"`
	Data  Data             `yaml:"data" json:"data"`
}

// AgentActorConfig holds the knobs consumed by the multi-turn agent actor.
// Optional fields are nil when unset.
type AgentActorConfig struct {
	EnableAgent          bool     `yaml:"enable_agent" json:"enable_agent"`
	MaxTurns             int      `yaml:"max_turns" json:"max_turns"`
	MaxStartLength       *int     `yaml:"max_start_length" json:"max_start_length"`
	MaxPromptLength      *int     `yaml:"max_prompt_length" json:"max_prompt_length"`
	MaxResponseLength    *int     `yaml:"max_response_length" json:"max_response_length"`
	MaxObsLength         *int     `yaml:"max_obs_length" json:"max_obs_length"`
	MaxActionLength      *int     `yaml:"max_action_length" json:"max_action_length"`
	NumGPUs              int      `yaml:"num_gpus" json:"num_gpus"`
	ToolServerURL        *string  `yaml:"tool_server_url" json:"tool_server_url"`
	N                    int      `yaml:"n" json:"n"`
	TruncateObsSide      string   `yaml:"truncate_obs_side" json:"truncate_obs_side"`
	TruncateResponseSide string   `yaml:"truncate_response_side" json:"truncate_response_side"`
	AgentRecordsDir      *string  `yaml:"agent_records_dir" json:"agent_records_dir"`
	RollingWithPrompt    bool     `yaml:"rolling_with_prompt" json:"rolling_with_prompt"`
	CallToolFirst        bool     `yaml:"call_tool_first" json:"call_tool_first"`
	MinActionNum         int      `yaml:"min_action_num" json:"min_action_num"`
	ActionStopTokens     []string `yaml:"action_stop_tokens" json:"action_stop_tokens"`
	RequestType          string   `yaml:"request_type" json:"request_type"`
}

// Data holds defaults for the convert and inspect commands.
type Data struct {
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

const DefaultOutputDir = "data/mathcoder"

func DefaultAgentActor() AgentActorConfig {
	return AgentActorConfig{
		EnableAgent:          true,
		NumGPUs:              1,
		N:                    1,
		TruncateObsSide:      "left",
		TruncateResponseSide: "left",
		RequestType:          "batch",
	}
}

func Default() *Config {
	return &Config{
		Actor: DefaultAgentActor(),
		Data:  Data{OutputDir: DefaultOutputDir},
	}
}

// Load reads a YAML config file on top of Default. Keys absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
