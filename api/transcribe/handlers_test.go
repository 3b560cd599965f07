package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
	"github.com/killallgit/transcribe-relay/internal/models"
	"github.com/killallgit/transcribe-relay/internal/services/assemblyai"
	"github.com/killallgit/transcribe-relay/internal/services/uploads"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJobService is a mock implementation of jobs.Service
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) SubmitJob(ctx context.Context, audio io.Reader) (string, error) {
	args := m.Called(ctx, audio)
	return args.String(0), args.Error(1)
}

func (m *MockJobService) GetJobStatus(ctx context.Context, jobID string) (*assemblyai.StatusView, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assemblyai.StatusView), args.Error(1)
}

func (m *MockJobService) FindJob(ctx context.Context, jobID string) (*models.TranscriptionJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TranscriptionJob), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context) ([]models.TranscriptionJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TranscriptionJob), args.Error(1)
}

func (m *MockJobService) PendingJobs(ctx context.Context, limit int) ([]models.TranscriptionJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TranscriptionJob), args.Error(1)
}

func (m *MockJobService) RecordPoll(ctx context.Context, jobID string, status assemblyai.Status) error {
	args := m.Called(ctx, jobID, status)
	return args.Error(0)
}

func passthrough(c *gin.Context) { c.Next() }

func setupRouter(t *testing.T, maxSize int64) (*gin.Engine, *MockJobService, *uploads.Intake) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	intake, err := uploads.NewIntake(uploads.Config{
		Dir:          t.TempDir(),
		MaxSize:      maxSize,
		AllowedTypes: []string{"audio/*", "video/*", "application/octet-stream"},
		FormField:    "audio",
	})
	require.NoError(t, err)

	svc := new(MockJobService)
	deps := &types.Dependencies{JobService: svc, Intake: intake}

	router := gin.New()
	RegisterRoutes(router.Group("/api/transcribe"), deps, passthrough, passthrough)
	return router, svc, intake
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        string
}

func multipartRequest(t *testing.T, parts ...filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		header.Set("Content-Type", p.contentType)
		w, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = io.WriteString(w, p.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged uploads must be removed")
}

func TestPost(t *testing.T) {
	audio := filePart{field: "audio", filename: "clip.wav", contentType: "audio/wav", data: "RIFF-ten-seconds"}

	t.Run("submits the staged audio", func(t *testing.T) {
		router, svc, intake := setupRouter(t, 1<<20)
		svc.On("SubmitJob", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				data, err := io.ReadAll(args.Get(1).(io.Reader))
				require.NoError(t, err)
				assert.Equal(t, "RIFF-ten-seconds", string(data))
			}).
			Return("abc123", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, audio))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"transcript_id":"abc123"}`, w.Body.String())
		svc.AssertExpectations(t)
		assertDirEmpty(t, intake.Dir())
	})

	t.Run("rejected uploads never reach the coordinator", func(t *testing.T) {
		tests := []struct {
			name     string
			request  func(t *testing.T) *http.Request
			maxSize  int64
			wantCode int
			wantErr  string
		}{
			{
				name: "no audio field",
				request: func(t *testing.T) *http.Request {
					return multipartRequest(t, filePart{field: "file", filename: "clip.wav", contentType: "audio/wav", data: "x"})
				},
				wantCode: http.StatusBadRequest,
				wantErr:  "MISSING_INPUT",
			},
			{
				name: "not multipart",
				request: func(t *testing.T) *http.Request {
					req := httptest.NewRequest(http.MethodPost, "/api/transcribe", strings.NewReader(`{"audio":"x"}`))
					req.Header.Set("Content-Type", "application/json")
					return req
				},
				wantCode: http.StatusBadRequest,
				wantErr:  "MISSING_INPUT",
			},
			{
				name: "empty file",
				request: func(t *testing.T) *http.Request {
					return multipartRequest(t, filePart{field: "audio", filename: "clip.wav", contentType: "audio/wav"})
				},
				wantCode: http.StatusBadRequest,
				wantErr:  "MISSING_INPUT",
			},
			{
				name: "two files",
				request: func(t *testing.T) *http.Request {
					return multipartRequest(t, audio, audio)
				},
				wantCode: http.StatusBadRequest,
				wantErr:  "INVALID_INPUT",
			},
			{
				name: "wrong content type",
				request: func(t *testing.T) *http.Request {
					return multipartRequest(t, filePart{field: "audio", filename: "notes.txt", contentType: "text/plain", data: "hello"})
				},
				wantCode: http.StatusBadRequest,
				wantErr:  "INVALID_INPUT",
			},
			{
				name:    "too large",
				maxSize: 4,
				request: func(t *testing.T) *http.Request {
					return multipartRequest(t, audio)
				},
				wantCode: http.StatusRequestEntityTooLarge,
				wantErr:  "PAYLOAD_TOO_LARGE",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				maxSize := tt.maxSize
				if maxSize == 0 {
					maxSize = 1 << 20
				}
				router, svc, intake := setupRouter(t, maxSize)

				w := httptest.NewRecorder()
				router.ServeHTTP(w, tt.request(t))

				assert.Equal(t, tt.wantCode, w.Code)
				assert.Equal(t, tt.wantErr, decodeError(t, w).Code)
				svc.AssertNotCalled(t, "SubmitJob", mock.Anything, mock.Anything)
				assertDirEmpty(t, intake.Dir())
			})
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		router, svc, intake := setupRouter(t, 1<<20)
		svc.On("SubmitJob", mock.Anything, mock.Anything).
			Return("", apperrors.New(apperrors.ErrCodeUploadFailed, "AssemblyAI upload returned status 401"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, audio))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "UPLOAD_FAILED", resp.Code)
		assert.Empty(t, resp.TranscriptID)
		assertDirEmpty(t, intake.Dir())
	})

	t.Run("unrecorded job still returns its id", func(t *testing.T) {
		router, svc, _ := setupRouter(t, 1<<20)
		svc.On("SubmitJob", mock.Anything, mock.Anything).
			Return("abc123", apperrors.PersistenceError("insert", stderrors.New("disk full")).WithDetail("job_id", "abc123"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, audio))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "PERSISTENCE_UNAVAILABLE", resp.Code)
		assert.Equal(t, "abc123", resp.TranscriptID)
	})

	t.Run("missing dependencies", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/transcribe", nil)

		Post(&types.Dependencies{})(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("returns provider JSON verbatim", func(t *testing.T) {
		router, svc, _ := setupRouter(t, 1<<20)
		raw := `{"id":"abc123","status":"completed","text":"안녕하세요","confidence":0.97,"words":[],"audio_duration":10}`
		svc.On("GetJobStatus", mock.Anything, "abc123").
			Return(&assemblyai.StatusView{JobID: "abc123", Status: assemblyai.StatusCompleted, Raw: []byte(raw)}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe/abc123", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, raw, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})

	t.Run("processing", func(t *testing.T) {
		router, svc, _ := setupRouter(t, 1<<20)
		svc.On("GetJobStatus", mock.Anything, "abc123").
			Return(&assemblyai.StatusView{JobID: "abc123", Status: assemblyai.StatusProcessing, Raw: []byte(`{"status":"processing"}`)}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe/abc123", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"processing"}`, w.Body.String())
	})

	t.Run("provider failure", func(t *testing.T) {
		router, svc, _ := setupRouter(t, 1<<20)
		svc.On("GetJobStatus", mock.Anything, "abc123").
			Return(nil, apperrors.New(apperrors.ErrCodeStatusFetchFailed, "timeout"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe/abc123", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "STATUS_FETCH_FAILED", decodeError(t, w).Code)
	})
}

func TestGetRecord(t *testing.T) {
	router, svc, _ := setupRouter(t, 1<<20)
	text := "안녕하세요"
	svc.On("FindJob", mock.Anything, "abc123").
		Return(&models.TranscriptionJob{JobID: "abc123", Text: &text, CreatedAt: time.Now().UTC()}, nil)
	svc.On("FindJob", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("transcription job", "missing"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe/abc123/record", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var record types.TranscriptRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "abc123", record.TranscriptID)
	require.NotNil(t, record.Text)
	assert.Equal(t, text, *record.Text)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe/missing/record", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAll(t *testing.T) {
	t.Run("lists records", func(t *testing.T) {
		router, svc, _ := setupRouter(t, 1<<20)
		svc.On("ListJobs", mock.Anything).Return([]models.TranscriptionJob{{JobID: "a"}, {JobID: "b"}}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var records []types.TranscriptRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "a", records[0].TranscriptID)
	})

	t.Run("empty store", func(t *testing.T) {
		router, svc, _ := setupRouter(t, 1<<20)
		svc.On("ListJobs", mock.Anything).Return([]models.TranscriptionJob{}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("store unavailable", func(t *testing.T) {
		router, svc, _ := setupRouter(t, 1<<20)
		svc.On("ListJobs", mock.Anything).Return(nil, apperrors.PersistenceError("list", stderrors.New("down")))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transcribe", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetRecord_Captions(t *testing.T) {
	router, svc, _ := setupRouter(t, 1<<20)
	text := "hello there"
	speaker := "A"
	completed := time.Now().UTC()
	svc.On("FindJob", mock.Anything, "done").Return(&models.TranscriptionJob{
		JobID: "done",
		Text:  &text,
		Words: []models.WordSpan{
			{Text: "hello", StartMs: 0, EndMs: 400, Speaker: &speaker},
			{Text: "there", StartMs: 450, EndMs: 900, Speaker: &speaker},
		},
		CompletedAt: &completed,
	}, nil)
	svc.On("FindJob", mock.Anything, "pending").Return(&models.TranscriptionJob{JobID: "pending"}, nil)

	tests := []struct {
		name        string
		path        string
		wantCode    int
		contentType string
		body        string
	}{
		{name: "srt", path: "/api/transcribe/done/record?format=srt", wantCode: http.StatusOK, contentType: "application/x-subrip", body: "1\n00:00:00,000 --> 00:00:00,900\n[A] hello there\n"},
		{name: "vtt", path: "/api/transcribe/done/record?format=vtt", wantCode: http.StatusOK, contentType: "text/vtt", body: "WEBVTT\n\n00:00:00.000 --> 00:00:00.900\n<v A>hello there\n"},
		{name: "text", path: "/api/transcribe/done/record?format=text", wantCode: http.StatusOK, contentType: "text/plain", body: "hello there\n"},
		{name: "explicit json", path: "/api/transcribe/done/record?format=json", wantCode: http.StatusOK, contentType: "application/json"},
		{name: "unsupported", path: "/api/transcribe/done/record?format=docx", wantCode: http.StatusBadRequest},
		{name: "not completed", path: "/api/transcribe/pending/record?format=srt", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}

	svc.AssertNotCalled(t, "FindJob", mock.Anything, "docx")
}
