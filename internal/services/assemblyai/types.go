package assemblyai

import (
	"encoding/json"

	"github.com/killallgit/transcribe-relay/internal/models"
)

// Status is the provider-reported lifecycle state of a transcript
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Valid reports whether s is one of the known provider states
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are expected
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// SubmitOptions are the per-deployment transcription settings sent with each job
type SubmitOptions struct {
	LanguageCode  string
	SpeakerLabels bool
}

// StatusView is the decoded provider status together with the raw response body
type StatusView struct {
	JobID      string
	Status     Status
	Text       string
	Confidence *float64
	Words      []models.WordSpan
	Error      string
	Raw        json.RawMessage
}

// IsCompleted reports whether the transcript result is available
func (v *StatusView) IsCompleted() bool {
	return v.Status == StatusCompleted
}

// Result returns the fields persisted for a completed job
func (v *StatusView) Result() models.TranscriptResult {
	words := v.Words
	if words == nil {
		words = []models.WordSpan{}
	}
	return models.TranscriptResult{
		Text:       v.Text,
		Confidence: v.Confidence,
		Words:      words,
	}
}

// API payloads

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	LanguageCode  string `json:"language_code,omitempty"`
	SpeakerLabels bool   `json:"speaker_labels"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type word struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    *string `json:"speaker"`
}

type statusResponse struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	Text       *string  `json:"text"`
	Confidence *float64 `json:"confidence"`
	Words      []word   `json:"words"`
	Error      string   `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toWordSpans(words []word) []models.WordSpan {
	spans := make([]models.WordSpan, 0, len(words))
	for _, w := range words {
		spans = append(spans, models.WordSpan{
			Text:       w.Text,
			StartMs:    w.Start,
			EndMs:      w.End,
			Confidence: w.Confidence,
			Speaker:    w.Speaker,
		})
	}
	return spans
}
