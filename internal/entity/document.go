package entity

type DocumentChunk struct {
	Key  string `json:"key"`
	Pos  int    `json:"pos"`
	Text string `json:"text"`
}

type IngestedDocument struct {
	Hash       string          `json:"hash"`
	SourcePath string          `json:"source_path"`
	Chunks     []DocumentChunk `json:"chunks"`
}

type Passage struct {
	Key    string  `json:"key"`
	Score  float32 `json:"score"`
	Text   string  `json:"text"`
	Source string  `json:"source"`
}
