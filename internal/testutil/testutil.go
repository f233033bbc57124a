// Package testutil provides common test utilities, mocks, and helpers for testing.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/textpin-back/internal/layout"
	"github.com/kyiku/textpin-back/internal/submit"
)

// Error code constants for testing
const (
	ErrCodeSessionExpired = "SESSION_EXPIRED"
	ErrCodeInvalidSession = "INVALID_SESSION"
	ErrCodeNoImage        = "NO_IMAGE"
	ErrCodeSubmitting     = "SUBMITTING"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// MockWebSocketConn is a mock implementation of WebSocket connection for testing.
type MockWebSocketConn struct {
	mu          sync.Mutex
	Messages    [][]byte
	LastMessage []byte
	IsClosed    bool
	ReadChan    chan []byte
	CloseChan   chan struct{}
	WriteErr    error
	CloseErr    error
}

// NewMockWebSocketConn creates a new MockWebSocketConn.
func NewMockWebSocketConn() *MockWebSocketConn {
	return &MockWebSocketConn{
		Messages:  make([][]byte, 0),
		ReadChan:  make(chan []byte, 100),
		CloseChan: make(chan struct{}),
	}
}

// WriteMessage mocks writing a message to WebSocket.
func (m *MockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}

	m.Messages = append(m.Messages, data)
	m.LastMessage = data
	return nil
}

// WriteJSON mocks writing JSON to WebSocket.
func (m *MockWebSocketConn) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.WriteMessage(1, data)
}

// ReadMessage mocks reading a message from WebSocket.
func (m *MockWebSocketConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.ReadChan:
		return 1, msg, nil
	case <-m.CloseChan:
		return 0, nil, io.EOF
	}
}

// Close mocks closing the WebSocket connection.
func (m *MockWebSocketConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsClosed {
		return nil
	}

	m.IsClosed = true
	close(m.CloseChan)

	if m.CloseErr != nil {
		return m.CloseErr
	}
	return nil
}

// GetMessages returns all messages sent through this connection.
func (m *MockWebSocketConn) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Messages
}

// GetLastMessageAsMap returns the last message as a map.
func (m *MockWebSocketConn) GetLastMessageAsMap() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LastMessage == nil {
		return nil
	}

	var result map[string]interface{}
	_ = json.Unmarshal(m.LastMessage, &result)
	return result
}

// MockS3Client is a mock implementation of S3 client for testing.
type MockS3Client struct {
	mu      sync.Mutex
	Objects map[string][]byte
	GetErr  error
	ListErr error
}

// NewMockS3Client creates a new MockS3Client.
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Objects: make(map[string][]byte),
	}
}

// GetObject mocks S3 GetObject.
func (m *MockS3Client) GetObject(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	data, ok := m.Objects[key]
	if !ok {
		return nil, &ObjectNotFoundError{Key: key}
	}
	return data, nil
}

// ListObjects mocks S3 ListObjects.
func (m *MockS3Client) ListObjects(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var keys []string
	for key := range m.Objects {
		if len(prefix) == 0 || len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// ObjectNotFoundError is returned when an S3 object is not found.
type ObjectNotFoundError struct {
	Key string
}

func (e *ObjectNotFoundError) Error() string {
	return "object not found: " + e.Key
}

// FixedMeasurer reports the same width for any text and the font size as height.
type FixedMeasurer struct {
	Width float64
}

// Measure implements layout.Measurer.
func (m FixedMeasurer) Measure(text string, size float64) layout.TextMetrics {
	return layout.TextMetrics{Width: m.Width, Height: size}
}

// MockSubmitter is a mock implementation of the template submission client.
type MockSubmitter struct {
	mu          sync.Mutex
	TemplateID  string
	Err         error
	Calls       int
	LastPayload submit.Payload
	// Block, when set, is waited on before Submit returns.
	Block chan struct{}
}

// NewMockSubmitter creates a MockSubmitter that returns templateID.
func NewMockSubmitter(templateID string) *MockSubmitter {
	return &MockSubmitter{TemplateID: templateID}
}

// Submit mocks submitting a template.
func (m *MockSubmitter) Submit(ctx context.Context, p submit.Payload) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.LastPayload = p
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.TemplateID, nil
}

// GetCalls returns the number of Submit calls.
func (m *MockSubmitter) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockResizeSource is a resize source whose size changes are triggered by the test.
type MockResizeSource struct {
	mu           sync.Mutex
	subscribers  map[int]func(layout.DisplayExtent)
	next         int
	Unsubscribed int
}

// NewMockResizeSource creates a new MockResizeSource.
func NewMockResizeSource() *MockResizeSource {
	return &MockResizeSource{subscribers: make(map[int]func(layout.DisplayExtent))}
}

// Subscribe registers fn and returns the function that removes it.
func (m *MockResizeSource) Subscribe(fn func(layout.DisplayExtent)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	m.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
		m.Unsubscribed++
	}
}

// Resize notifies all subscribers of a new size.
func (m *MockResizeSource) Resize(width, height float64) {
	m.mu.Lock()
	fns := make([]func(layout.DisplayExtent), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(layout.DisplayExtent{Width: width, Height: height})
	}
}

// Subscribers returns the number of active subscriptions.
func (m *MockResizeSource) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// TestContext wraps Echo context for testing.
type TestContext struct {
	Echo     *echo.Echo
	Context  echo.Context
	Request  *http.Request
	Recorder *httptest.ResponseRecorder
}

// NewTestContext creates a new test context for Echo handlers.
func NewTestContext(method, path string, body io.Reader) *TestContext {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return &TestContext{
		Echo:     e,
		Context:  c,
		Request:  req,
		Recorder: rec,
	}
}

// NewTestContextWithJSON creates a test context with JSON body.
func NewTestContextWithJSON(method, path string, body interface{}) *TestContext {
	jsonBody, _ := json.Marshal(body)
	tc := NewTestContext(method, path, bytes.NewReader(jsonBody))
	tc.Request.Header.Set("Content-Type", "application/json")
	return tc
}

// SetCookie adds a cookie to the test request.
func (tc *TestContext) SetCookie(name, value string) {
	tc.Request.AddCookie(&http.Cookie{Name: name, Value: value})
}

// GetResponseBody returns the response body as a map.
func (tc *TestContext) GetResponseBody() map[string]interface{} {
	var result map[string]interface{}
	_ = json.Unmarshal(tc.Recorder.Body.Bytes(), &result)
	return result
}

// GetResponseCode returns the HTTP response status code.
func (tc *TestContext) GetResponseCode() int {
	return tc.Recorder.Code
}

// WaitFor waits for a condition to be true within timeout.
func WaitFor(timeout, interval time.Duration, condition func() bool) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return nil
		}
		time.Sleep(interval)
	}
	return &TimeoutError{Timeout: timeout}
}

// TimeoutError is returned when WaitFor times out.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "timeout waiting for condition"
}

// CreateTestPNG creates a test PNG image with specified dimensions.
func CreateTestPNG(width, height int) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, CreateTestImage(width, height))
	return buf.Bytes()
}

// CreateTestJPEG creates a test JPEG image with specified dimensions.
func CreateTestJPEG(width, height int) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, CreateTestImage(width, height), &jpeg.Options{Quality: 80})
	return buf.Bytes()
}

// CreateTestImage fills an image with a gradient so resampling changes pixels.
func CreateTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}
