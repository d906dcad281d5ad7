package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ginjaninja78/edi834-generator/internal/history"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateFromPath(ctx context.Context, inputPath, outputDest string) (*types.Summary, error) {
	args := m.Called(inputPath, outputDest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Summary), args.Error(1)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]history.Entry), args.Error(1)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var decoded map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	}
	return rr, decoded
}

func TestGenerateFromPath(t *testing.T) {
	t.Run("should return the summary on success", func(t *testing.T) {
		gen := new(MockGenerator)
		handler := SetupRoutes(NewGenerateService(gen, nil, nil), nil)

		in, _ := filepath.Abs("members.xlsx")
		out, _ := filepath.Abs("out/jan.edi")
		gen.On("GenerateFromPath", in, out).Return(&types.Summary{
			OutputPath:    out,
			SegmentCount:  24,
			MemberCount:   1,
			ControlNumber: 123456,
		}, nil)

		rr, body := do(t, handler, http.MethodPost, "/api/generate-from-path",
			`{"excelPath":"members.xlsx","outputPath":"out/jan.edi"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, SuccessMessage, body["message"])
		assert.Equal(t, out, body["outputPath"])
		assert.Equal(t, 24.0, body["segmentCount"])
		assert.Equal(t, 1.0, body["memberCount"])
		assert.Equal(t, 123456.0, body["controlNumber"])
		gen.AssertExpectations(t)
	})

	t.Run("should keep directory and s3 destinations", func(t *testing.T) {
		gen := new(MockGenerator)
		handler := SetupRoutes(NewGenerateService(gen, nil, nil), nil)

		in, _ := filepath.Abs("m.csv")
		dir, _ := filepath.Abs("out")
		gen.On("GenerateFromPath", in, dir+string(filepath.Separator)).Return(&types.Summary{}, nil).Once()
		gen.On("GenerateFromPath", in, "s3://bucket/feeds/").Return(&types.Summary{}, nil).Once()
		gen.On("GenerateFromPath", in, "").Return(&types.Summary{}, nil).Once()

		for _, out := range []string{"out/", "s3://bucket/feeds/", ""} {
			rr, _ := do(t, handler, http.MethodPost, "/api/generate-from-path",
				`{"excelPath":"m.csv","outputPath":"`+out+`"}`)
			assert.Equal(t, http.StatusOK, rr.Code, out)
		}
		gen.AssertExpectations(t)
	})

	t.Run("should require excelPath", func(t *testing.T) {
		gen := new(MockGenerator)
		handler := SetupRoutes(NewGenerateService(gen, nil, nil), nil)

		for _, body := range []string{`{}`, ``, `{"outputPath":"x"}`} {
			rr, decoded := do(t, handler, http.MethodPost, "/api/generate-from-path", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "excelPath is required", decoded["error"])
		}
		gen.AssertNotCalled(t, "GenerateFromPath", mock.Anything, mock.Anything)
	})

	t.Run("should return 400 with the error text", func(t *testing.T) {
		gen := new(MockGenerator)
		handler := SetupRoutes(NewGenerateService(gen, nil, nil), nil)
		gen.On("GenerateFromPath", mock.Anything, mock.Anything).
			Return(nil, errors.New("Row validation failed:\nRow 2: Member ID is required."))

		rr, body := do(t, handler, http.MethodPost, "/api/generate-from-path", `{"excelPath":"bad.xlsx"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Row validation failed:\nRow 2: Member ID is required.", body["error"])
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		handler := SetupRoutes(NewGenerateService(new(MockGenerator), nil, nil), nil)
		rr, body := do(t, handler, http.MethodPost, "/api/generate-from-path", `{"excelPath":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotEmpty(t, body["error"])
	})
}

func TestRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("edi834_documents_generated_total 0\n"))
	})
	handler := SetupRoutes(NewGenerateService(new(MockGenerator), nil, nil), metrics)

	t.Run("index", func(t *testing.T) {
		rr, _ := do(t, handler, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rr.Body.String(), "EDI 834 Generator")
	})

	t.Run("app.js", func(t *testing.T) {
		rr, _ := do(t, handler, http.MethodGet, "/app.js", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/javascript", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "/api/generate-from-path")
	})

	t.Run("healthz", func(t *testing.T) {
		rr, body := do(t, handler, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("metrics", func(t *testing.T) {
		rr, _ := do(t, handler, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "edi834_documents_generated_total")
	})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/api/generate-from-path"},
		{http.MethodPost, "/"},
		{http.MethodDelete, "/app.js"},
	} {
		t.Run("not found "+tc.method+" "+tc.path, func(t *testing.T) {
			rr, body := do(t, handler, tc.method, tc.path, "")
			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Equal(t, "Route not found", body["error"])
		})
	}
}

func TestListHistory(t *testing.T) {
	t.Run("should list entries", func(t *testing.T) {
		hist := new(MockHistory)
		hist.On("Recent", 5).Return([]history.Entry{
			{ID: "a", ControlNumber: 111111, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)
		handler := SetupRoutes(NewGenerateService(new(MockGenerator), hist, nil), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var entries []history.Entry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, 111111, entries[0].ControlNumber)
	})

	t.Run("should default the limit and return an empty list", func(t *testing.T) {
		hist := new(MockHistory)
		hist.On("Recent", defaultHistoryLimit).Return(nil, nil)
		handler := SetupRoutes(NewGenerateService(new(MockGenerator), hist, nil), nil)

		rr, _ := do(t, handler, http.MethodGet, "/api/history", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("should reject a bad limit", func(t *testing.T) {
		handler := SetupRoutes(NewGenerateService(new(MockGenerator), new(MockHistory), nil), nil)
		rr, _ := do(t, handler, http.MethodGet, "/api/history?limit=zero", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should report a disabled ledger", func(t *testing.T) {
		handler := SetupRoutes(NewGenerateService(new(MockGenerator), nil, nil), nil)
		rr, _ := do(t, handler, http.MethodGet, "/api/history", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("should hide store errors", func(t *testing.T) {
		hist := new(MockHistory)
		hist.On("Recent", defaultHistoryLimit).Return(nil, errors.New("locked"))
		handler := SetupRoutes(NewGenerateService(new(MockGenerator), hist, nil), nil)
		rr, body := do(t, handler, http.MethodGet, "/api/history", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to retrieve history", body["error"])
	})
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, 0, http.NotFoundHandler(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
