package record

const (
	RoleSystem = "system"
	RoleUser   = "user"

	AbilityMath = "math"
	StyleRule   = "rule"
)

// MathCoderSystemPrompt is prepended to every converted conversation.
const MathCoderSystemPrompt = "A conversation between User and Assistant. The user asks a question, and the Assistant solves it. The assistant first thinks about the reasoning process in the mind and then provides the user with the answer. User: Please integrate natural language reasoning with programs to solve the problem above. For math problems, please put your final answer within \\boxed{}. For code problems, please put your final answer in a markdown code block like this: ```python\nyour code here\n```.\n"

type Message struct {
	Role    string `parquet:"name=role, type=BYTE_ARRAY, convertedtype=UTF8" json:"role"`
	Content string `parquet:"name=content, type=BYTE_ARRAY, convertedtype=UTF8" json:"content"`
}

type RewardModel struct {
	Style       string `parquet:"name=style, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"style"`
	GroundTruth string `parquet:"name=ground_truth, type=BYTE_ARRAY, convertedtype=UTF8" json:"ground_truth"`
}

type ExtraInfo struct {
	Split    string `parquet:"name=split, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"split"`
	Index    int64  `parquet:"name=index, type=INT64" json:"index"`
	Question string `parquet:"name=question, type=BYTE_ARRAY, convertedtype=UTF8" json:"question"`
}

// TrainingRecord is one row of a converted dataset.
type TrainingRecord struct {
	DataSource  string      `parquet:"name=data_source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"data_source"`
	Prompt      []Message   `parquet:"name=prompt, type=LIST" json:"prompt"`
	Ability     string      `parquet:"name=ability, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"ability"`
	RewardModel RewardModel `parquet:"name=reward_model" json:"reward_model"`
	ExtraInfo   ExtraInfo   `parquet:"name=extra_info" json:"extra_info"`
}

func New(source, split string, index int, question, groundTruth string) TrainingRecord {
	return TrainingRecord{
		DataSource: source,
		Prompt: []Message{
			{Role: RoleSystem, Content: MathCoderSystemPrompt},
			{Role: RoleUser, Content: question},
		},
		Ability: AbilityMath,
		RewardModel: RewardModel{
			Style:       StyleRule,
			GroundTruth: groundTruth,
		},
		ExtraInfo: ExtraInfo{
			Split:    split,
			Index:    int64(index),
			Question: question,
		},
	}
}

// UserContent returns the content of the first user turn, or "" if there is none.
func (r *TrainingRecord) UserContent() string {
	for _, m := range r.Prompt {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}
