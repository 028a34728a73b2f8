package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeGemini is an httptest server speaking the generateContent wire format
type FakeGemini struct {
	*httptest.Server

	mu       sync.Mutex
	response string
	status   int
	requests []map[string]interface{}
}

// NewFakeGemini starts a server answering every generateContent call with response
func NewFakeGemini(t *testing.T, response string) *FakeGemini {
	t.Helper()
	f := &FakeGemini{response: response, status: http.StatusOK}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// Fail makes subsequent calls return status with an API error body
func (f *FakeGemini) Fail(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// Requests returns the decoded request bodies received so far
func (f *FakeGemini) Requests() []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]interface{}{}, f.requests...)
}

func (f *FakeGemini) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var decoded map[string]interface{}
	_ = json.Unmarshal(body, &decoded)

	f.mu.Lock()
	f.requests = append(f.requests, decoded)
	status, response := f.status, f.response
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"request rejected","status":"INVALID_ARGUMENT"}}`))
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []interface{}{map[string]interface{}{"text": response}},
				},
				"finishReason": "STOP",
			},
		},
	})
}
