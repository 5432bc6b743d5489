package result

import "time"

// Manifest describes one conversion run's outputs.
type Manifest struct {
	Source      string        `json:"source"`
	DatasetPath string        `json:"dataset_path"`
	CreatedAt   time.Time     `json:"created_at"`
	Splits      []SplitResult `json:"splits"`
}

type SplitResult struct {
	Name string `json:"name"`
	File string `json:"file"`
	Rows int    `json:"rows"`
}
