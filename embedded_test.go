package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmbeddedHeader(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		lines      []string
		terminated bool
	}{
		{
			name:       "crlf",
			payload:    "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nHELLO",
			lines:      []string{"HTTP/1.1 200 OK", "Content-Length: 5"},
			terminated: true,
		},
		{
			name:       "bare lf",
			payload:    "HTTP/1.1 200 OK\nServer: x\n\nbody\n\nmore",
			lines:      []string{"HTTP/1.1 200 OK", "Server: x"},
			terminated: true,
		},
		{
			name:       "lone cr",
			payload:    "HTTP/1.1 204 No Content\r\rbody",
			lines:      []string{"HTTP/1.1 204 No Content"},
			terminated: true,
		},
		{
			name:       "lines are trimmed",
			payload:    "  HTTP/1.1 200 OK \r\n\tServer: x\t\r\n\r\n",
			lines:      []string{"HTTP/1.1 200 OK", "Server: x"},
			terminated: true,
		},
		{
			name:    "no terminator",
			payload: "HTTP/1.1 200 OK\r\nContent-Length: 0",
			lines:   []string{"HTTP/1.1 200 OK", "Content-Length: 0"},
		},
		{
			name:       "leading blank line",
			payload:    "\r\nHTTP/1.1 200 OK\r\n",
			terminated: true,
		},
		{
			name:    "empty payload",
			payload: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := parseEmbeddedHeader([]byte(tt.payload))
			assert.Equal(t, tt.lines, h.lines)
			assert.Equal(t, tt.terminated, h.terminated)
		})
	}
}

func TestEmbeddedHeaderBlock(t *testing.T) {
	h := parseEmbeddedHeader([]byte("HTTP/1.1 200 OK\nContent-Type: text/plain\n\nHELLO"))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n", string(h.block()))

	assert.Equal(t, "\r\n\r\n", string(parseEmbeddedHeader(nil).block()))
}

func TestEmbeddedHeaderDeclaresEmptyBody(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{"HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", true},
		{"HTTP/1.1 200 OK\r\ncontent-length: 0\r\n\r\n", true},
		{"HTTP/1.1 200 OK\r\nCONTENT-LENGTH:0\r\n\r\n", true},
		{"HTTP/1.1 200 OK\r\nContent-Length: 00\r\n\r\n", true},
		{"HTTP/1.1 200 OK\r\nContent-Length: 05\r\n\r\nHELLO", false},
		{"HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nHELLO", false},
		{"HTTP/1.1 200 OK\r\nX-Content-Length: 0\r\n\r\nHELLO", false},
		{"HTTP/1.1 200 OK\r\n\r\nHELLO", false},
		{"HTTP/1.1 200 OK\r\nContent-Length: 0", false},
	}
	for _, tt := range tests {
		h := parseEmbeddedHeader([]byte(tt.payload))
		assert.Equal(t, tt.want, h.declaresEmptyBody(), "%q", tt.payload)
	}
}
