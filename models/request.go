package models

// TaskKind selects which remote operation a request performs.
type TaskKind string

const (
	TaskAnalyze  TaskKind = "analyze"
	TaskGenerate TaskKind = "generate"
	TaskEdit     TaskKind = "edit"
)

// Resolution is the discrete output size tier for image generation.
type Resolution string

const (
	Resolution1K Resolution = "1K"
	Resolution2K Resolution = "2K"
	Resolution4K Resolution = "4K"
)

// ValidResolution reports whether r is one of the three supported tiers.
func ValidResolution(r Resolution) bool {
	switch r {
	case Resolution1K, Resolution2K, Resolution4K:
		return true
	}
	return false
}

// AnalyzeRequest carries a print-ready document to the analysis endpoint.
type AnalyzeRequest struct {
	Data     []byte
	MIMEType string
	Filename string
}

// GenerateRequest asks the remote model for a new image from a prompt.
type GenerateRequest struct {
	Prompt     string
	Resolution Resolution
}

// EditRequest asks the remote model to rework an existing image.
type EditRequest struct {
	Data        []byte
	MIMEType    string
	Instruction string
}

// ImageResult is the outcome of a generate or edit task.
type ImageResult struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mimeType"`
	DataURI  string `json:"dataUri"`
}
