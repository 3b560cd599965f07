package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/killallgit/transcribe-relay/pkg/logging"
)

const (
	defaultBaseURL = "https://api.assemblyai.com/v2"

	// maxResponseSize bounds provider response bodies; completed transcripts
	// of long recordings carry a word list and can be large
	maxResponseSize = 64 << 20
)

// Client handles communication with the AssemblyAI v2 API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
}

// Config holds configuration for the AssemblyAI client
type Config struct {
	APIKey    string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new AssemblyAI API client
func NewClient(cfg Config) *Client {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = "TranscribeRelay/1.0"
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		userAgent:  cfg.UserAgent,
	}
}

// Submit uploads the audio and creates a transcript job for it.
// The job is only requested once the upload has returned an audio URL.
func (c *Client) Submit(ctx context.Context, audio io.Reader, opts SubmitOptions) (string, error) {
	audioURL, err := c.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	return c.createTranscript(ctx, audioURL, opts)
}

// FetchStatus retrieves the current state of a transcript job
func (c *Client) FetchStatus(ctx context.Context, jobID string) (*StatusView, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.InvalidInput("job_id", "must not be empty")
	}

	endpoint := "transcript/" + url.PathEscape(jobID)
	body, err := c.do(ctx, http.MethodGet, endpoint, "", nil, errors.ErrCodeStatusFetchFailed)
	if err != nil {
		return nil, err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, invalidResponse("status", "response is not valid JSON", err)
	}

	status := Status(resp.Status)
	if !status.Valid() {
		return nil, invalidResponse("status", fmt.Sprintf("unknown status %q", resp.Status), nil)
	}

	view := &StatusView{
		JobID:  jobID,
		Status: status,
		Error:  resp.Error,
		Raw:    json.RawMessage(body),
	}

	if status == StatusCompleted {
		if resp.Text == nil {
			return nil, invalidResponse("status", "completed response has no text", nil)
		}
		view.Text = *resp.Text
		view.Confidence = resp.Confidence
		view.Words = toWordSpans(resp.Words)
	}

	logging.Debugf("AssemblyAI transcript %s is %s", jobID, status)
	return view, nil
}

// upload sends the raw audio bytes and returns the provider-hosted audio URL
func (c *Client) upload(ctx context.Context, audio io.Reader) (string, error) {
	if audio == nil {
		return "", errors.MissingInput("audio")
	}

	body, err := c.do(ctx, http.MethodPost, "upload", "application/octet-stream", audio, errors.ErrCodeUploadFailed)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", invalidResponse("upload", "response is not valid JSON", err)
	}
	if resp.UploadURL == "" {
		return "", invalidResponse("upload", "response has no upload_url", nil)
	}

	logging.Debugf("AssemblyAI upload stored at %s", resp.UploadURL)
	return resp.UploadURL, nil
}

// createTranscript requests transcription of an uploaded audio URL
func (c *Client) createTranscript(ctx context.Context, audioURL string, opts SubmitOptions) (string, error) {
	payload, err := json.Marshal(transcriptRequest{
		AudioURL:      audioURL,
		LanguageCode:  opts.LanguageCode,
		SpeakerLabels: opts.SpeakerLabels,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSubmitFailed, "failed to encode transcript request")
	}

	body, err := c.do(ctx, http.MethodPost, "transcript", "application/json", bytes.NewReader(payload), errors.ErrCodeSubmitFailed)
	if err != nil {
		return "", err
	}

	var resp transcriptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", invalidResponse("transcript", "response is not valid JSON", err)
	}
	if resp.ID == "" {
		return "", invalidResponse("transcript", "response has no id", nil)
	}

	log.Printf("[INFO] AssemblyAI transcript %s created (status: %s)", resp.ID, resp.Status)
	return resp.ID, nil
}

// do executes a request and returns the body of a 2xx response.
// Transport failures and non-2xx responses are reported with failCode.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, failCode errors.ErrorCode) ([]byte, error) {
	fullURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	// Inherit the caller's deadline but not its cancellation or values
	cleanCtx := context.Background()
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		cleanCtx, cancel = context.WithDeadline(cleanCtx, deadline)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(cleanCtx, method, fullURL, body)
	if err != nil {
		return nil, errors.Wrap(err, failCode, "creating request")
	}

	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] AssemblyAI %s %s failed: %v", method, endpoint, err)
		return nil, errors.Wrapf(err, failCode, "AssemblyAI %s request failed", endpoint).
			WithDetail("endpoint", endpoint)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, failCode, "reading AssemblyAI %s response", endpoint).
			WithDetail("endpoint", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[ERROR] AssemblyAI API returned status %d for %s %s", resp.StatusCode, method, endpoint)
		appErr := errors.Newf(failCode, "AssemblyAI %s returned status %d", endpoint, resp.StatusCode).
			WithDetail("endpoint", endpoint).
			WithDetail("status_code", resp.StatusCode)

		var providerErr errorResponse
		if json.Unmarshal(data, &providerErr) == nil && providerErr.Error != "" {
			appErr = appErr.WithDetail("provider_error", providerErr.Error)
		}
		return nil, appErr
	}

	return data, nil
}

func invalidResponse(operation, reason string, cause error) *errors.AppError {
	err := errors.Newf(errors.ErrCodeProviderResponseInvalid, "invalid AssemblyAI %s response: %s", operation, reason).
		WithDetail("operation", operation)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
