// Package transcript turns timed words into caption documents.
package transcript

import (
	"fmt"
	"strings"
	"time"
)

// TranscriptFormat represents the output format of a transcript
type TranscriptFormat string

const (
	FormatVTT  TranscriptFormat = "vtt"
	FormatSRT  TranscriptFormat = "srt"
	FormatText TranscriptFormat = "text"
)

// ParseFormat maps a user supplied format name to a TranscriptFormat
func ParseFormat(name string) (TranscriptFormat, error) {
	switch f := TranscriptFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatVTT, FormatSRT, FormatText:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// ContentType returns the MIME type for the format
func (f TranscriptFormat) ContentType() string {
	switch f {
	case FormatVTT:
		return "text/vtt; charset=utf-8"
	case FormatSRT:
		return "application/x-subrip; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Word is one recognized word with its timing
type Word struct {
	Text    string
	Start   time.Duration
	End     time.Duration
	Speaker string
}

// Segment represents a caption cue
type Segment struct {
	Start   time.Duration
	End     time.Duration
	Speaker string
	Text    string
}

// Transcript represents a segmented transcript
type Transcript struct {
	Segments []Segment
	FullText string
	Duration time.Duration
}

// CueOptions bounds how many words go into one caption cue
type CueOptions struct {
	MaxDuration time.Duration
	MaxChars    int
	MaxGap      time.Duration
}

// DefaultCueOptions returns cue limits suited to subtitles
func DefaultCueOptions() CueOptions {
	return CueOptions{
		MaxDuration: 5 * time.Second,
		MaxChars:    80,
		MaxGap:      1500 * time.Millisecond,
	}
}

// FromWords groups words into cues. A new cue starts when the speaker changes,
// the pause before a word exceeds MaxGap, or the cue would grow past MaxDuration or MaxChars.
// fullText is used as the plain text when given, otherwise the words are joined.
func FromWords(words []Word, fullText string, opts CueOptions) *Transcript {
	if opts.MaxDuration <= 0 || opts.MaxChars <= 0 {
		opts = DefaultCueOptions()
	}

	t := &Transcript{Segments: []Segment{}}
	var current *Segment
	var all []string

	flush := func() {
		if current != nil && current.Text != "" {
			t.Segments = append(t.Segments, *current)
		}
		current = nil
	}

	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		all = append(all, text)

		if current != nil {
			tooLong := w.End-current.Start > opts.MaxDuration
			tooWide := len([]rune(current.Text))+1+len([]rune(text)) > opts.MaxChars
			paused := opts.MaxGap > 0 && w.Start-current.End > opts.MaxGap
			if w.Speaker != current.Speaker || tooLong || tooWide || paused {
				flush()
			}
		}

		if current == nil {
			current = &Segment{Start: w.Start, End: w.End, Speaker: w.Speaker, Text: text}
			continue
		}
		current.Text += " " + text
		if w.End > current.End {
			current.End = w.End
		}
	}
	flush()

	t.FullText = strings.TrimSpace(fullText)
	if t.FullText == "" {
		t.FullText = strings.Join(all, " ")
	}
	if len(t.Segments) > 0 {
		t.Duration = t.Segments[len(t.Segments)-1].End
	}
	return t
}

// Render writes the transcript in the requested format
func (t *Transcript) Render(format TranscriptFormat) (string, error) {
	switch format {
	case FormatVTT:
		return t.renderVTT(), nil
	case FormatSRT:
		return t.renderSRT(), nil
	case FormatText:
		return t.ToPlainText() + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (t *Transcript) renderVTT() string {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, seg := range t.Segments {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(seg.Start, '.'), formatTimestamp(seg.End, '.'))
		if seg.Speaker != "" {
			fmt.Fprintf(&b, "<v %s>%s\n", seg.Speaker, seg.Text)
		} else {
			b.WriteString(seg.Text + "\n")
		}
	}
	return b.String()
}

func (t *Transcript) renderSRT() string {
	var b strings.Builder
	for i, seg := range t.Segments {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(seg.Start, ','), formatTimestamp(seg.End, ','))
		if seg.Speaker != "" {
			fmt.Fprintf(&b, "[%s] %s\n", seg.Speaker, seg.Text)
		} else {
			b.WriteString(seg.Text + "\n")
		}
	}
	return b.String()
}

// ToPlainText converts a transcript to plain text format
func (t *Transcript) ToPlainText() string {
	if t.FullText != "" {
		return t.FullText
	}

	var builder strings.Builder
	for _, segment := range t.Segments {
		builder.WriteString(segment.Text)
		builder.WriteString(" ")
	}

	return strings.TrimSpace(builder.String())
}

// formatTimestamp renders HH:MM:SS followed by sep and milliseconds
func formatTimestamp(d time.Duration, sep byte) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3600000
	minutes := (ms / 60000) % 60
	seconds := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, ms%1000)
}
