package model

// ImageBlob is an uploaded image as declared by the client.
type ImageBlob struct {
	Name      string
	MediaType string
	Data      []byte
}

func (b ImageBlob) Size() int { return len(b.Data) }

type ImageAnalysisResult struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
	Value       float64 `json:"value"`
	Confidence  int     `json:"confidence"`
	AnalyzedBy  string  `json:"analyzed_by,omitempty"`
	Note        string  `json:"note,omitempty"`
	// Error is set when remote analysis was attempted and failed.
	Error string `json:"error,omitempty"`
}

type AddOnSuggestion struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}
