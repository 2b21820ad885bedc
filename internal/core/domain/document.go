package domain

import "time"

type DocumentStatus string

const (
	StatusUploading DocumentStatus = "uploading"
	StatusAnalyzing DocumentStatus = "analyzing"
	StatusDone      DocumentStatus = "done"
	StatusError     DocumentStatus = "error"
)

// statusRank orders statuses to keep transitions strictly forward-moving.
func statusRank(s DocumentStatus) int {
	switch s {
	case StatusUploading:
		return 0
	case StatusAnalyzing:
		return 1
	case StatusDone, StatusError:
		return 2
	default:
		return -1
	}
}

// CanTransition reports whether a document may move from one status to
// another. Terminal statuses never move backward.
func CanTransition(from, to DocumentStatus) bool {
	if from == "" {
		return true
	}
	return statusRank(to) > statusRank(from)
}

// UploadedDocument tracks one transaction file through the pipeline.
// Analysis is present iff Status is done; Applied implies done with at
// least one suggestion.
type UploadedDocument struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	DeclaredType FileType          `json:"declared_type"`
	SizeBytes    int64             `json:"size_bytes"`
	Status       DocumentStatus    `json:"status"`
	Analysis     *DocumentAnalysis `json:"analysis,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Applied      bool              `json:"applied"`
	StoragePath  string            `json:"-"`
	UploadedAt   time.Time         `json:"uploaded_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// FileType is the closed set of container formats the extractor accepts.
type FileType string

const (
	FilePDF  FileType = "pdf"
	FileDOCX FileType = "docx"
	FileXLSX FileType = "xlsx"
	FilePPTX FileType = "pptx"
	FileTXT  FileType = "txt"
	FileCSV  FileType = "csv"
)

func ParseFileType(s string) (FileType, bool) {
	switch FileType(s) {
	case FilePDF, FileDOCX, FileXLSX, FilePPTX, FileTXT, FileCSV:
		return FileType(s), true
	default:
		return "", false
	}
}

// DocumentAnalysis is the typed result of one inference call.
type DocumentAnalysis struct {
	DocType        string       `json:"docType"`
	Summary        string       `json:"summary"`
	CompletedItems []Suggestion `json:"completedItems"`
	KeyFindings    []string     `json:"keyFindings"`
	Warnings       []string     `json:"warnings"`
}

// Suggestion is an AI-proposed checklist completion. ItemID always
// references a catalog item; out-of-catalog ids are dropped at parse time.
type Suggestion struct {
	ItemID         string  `json:"id"`
	Confidence     float64 `json:"confidence"`
	ExtractedValue string  `json:"extractedValue,omitempty"`
}

// PendingSuggestion is a staged suggestion shown to the user while its
// target item is still unchecked. SourceDocumentID keys the stage back to
// the document that produced it; the name is display-only.
type PendingSuggestion struct {
	ItemID             string  `json:"item_id"`
	Confidence         float64 `json:"confidence"`
	ExtractedValue     string  `json:"extracted_value,omitempty"`
	SourceDocumentID   string  `json:"source_document_id"`
	SourceDocumentName string  `json:"source_document_name"`
}
