package types

import (
	"time"

	"github.com/killallgit/transcribe-relay/internal/models"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/killallgit/transcribe-relay/pkg/transcript"
)

// ToTranscriptRecord converts a stored job into its API representation
func ToTranscriptRecord(job models.TranscriptionJob) TranscriptRecord {
	record := TranscriptRecord{
		TranscriptID: job.JobID,
		Text:         job.Text,
		Confidence:   job.Confidence,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
		LastStatus:   job.LastStatus,
		LastPolledAt: job.LastPolledAt,
	}
	if len(job.Words) > 0 {
		record.Words = []models.WordSpan(job.Words)
	}
	return record
}

// ToTranscriptRecords converts a list of stored jobs, never returning nil
func ToTranscriptRecords(jobs []models.TranscriptionJob) []TranscriptRecord {
	records := make([]TranscriptRecord, 0, len(jobs))
	for _, job := range jobs {
		records = append(records, ToTranscriptRecord(job))
	}
	return records
}

// ToCaptions segments a completed job's words into caption cues
func ToCaptions(job models.TranscriptionJob) (*transcript.Transcript, error) {
	if !job.HasResult() {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "transcript has no completed result yet").
			WithDetail("transcript_id", job.JobID)
	}

	words := make([]transcript.Word, 0, len(job.Words))
	for _, w := range job.Words {
		word := transcript.Word{
			Text:  w.Text,
			Start: msToDuration(w.StartMs),
			End:   msToDuration(w.EndMs),
		}
		if w.Speaker != nil {
			word.Speaker = *w.Speaker
		}
		words = append(words, word)
	}

	var text string
	if job.Text != nil {
		text = *job.Text
	}
	return transcript.FromWords(words, text, transcript.DefaultCueOptions()), nil
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
