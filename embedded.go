package archive

import (
	"bytes"
	"strconv"
	"strings"
)

// embeddedHeader is the protocol header section at the start of a response
// payload (an HTTP status line and headers, for HTTP captures).
type embeddedHeader struct {
	lines      []string
	terminated bool // a blank line ended the section
}

// parseEmbeddedHeader collects payload lines up to the first empty line.
// Lines end at CRLF, LF or a lone CR and are trimmed of surrounding space.
func parseEmbeddedHeader(payload []byte) embeddedHeader {
	var h embeddedHeader
	rest := payload
	for len(rest) > 0 {
		var line []byte
		i := bytes.IndexAny(rest, "\r\n")
		switch {
		case i < 0:
			line, rest = rest, nil
		case rest[i] == '\r' && i+1 < len(rest) && rest[i+1] == '\n':
			line, rest = rest[:i], rest[i+2:]
		default:
			line, rest = rest[:i], rest[i+1:]
		}
		if len(line) == 0 {
			h.terminated = true
			return h
		}
		h.lines = append(h.lines, string(bytes.TrimSpace(line)))
	}
	return h
}

// block rebuilds the section as CRLF separated lines ending in a blank line.
func (h embeddedHeader) block() []byte {
	var buf bytes.Buffer
	for i, line := range h.lines {
		if i > 0 {
			buf.WriteString("\r\n")
		}
		buf.WriteString(line)
	}
	buf.WriteString("\r\n\r\n")
	return buf.Bytes()
}

// declaresEmptyBody reports whether the section's first Content-Length
// (matched case-insensitively) is zero. An unterminated section never
// qualifies.
func (h embeddedHeader) declaresEmptyBody() bool {
	if !h.terminated {
		return false
	}
	for _, line := range h.lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		return err == nil && n == 0
	}
	return false
}
