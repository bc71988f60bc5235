package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

const (
	defaultLogLines = 200
	maxLogLines     = 5000
)

// LogsHandler serves the tail of the application log file.
type LogsHandler struct {
	logFile string
}

func NewLogsHandler(logFile string) *LogsHandler {
	return &LogsHandler{logFile: logFile}
}

// GetLogs returns the last ?lines= lines (default 200, capped at 5000) as
// plain text.
func (h *LogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	n := defaultLogLines
	if raw := r.URL.Query().Get("lines"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSONError(w, http.StatusBadRequest, "lines must be a positive integer")
			return
		}
		n = min(parsed, maxLogLines)
	}

	lines, err := h.tail(n)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	io.WriteString(w, strings.Join(lines, "\n"))
}

func (h *LogsHandler) tail(n int) ([]string, error) {
	if h.logFile == "" {
		return nil, fmt.Errorf("no log file configured")
	}
	f, err := os.Open(h.logFile)
	if err != nil {
		return nil, fmt.Errorf("could not open log file %s: %w", h.logFile, err)
	}
	defer f.Close()
	return readLastNLines(f, n)
}

// readLastNLines reads backwards in fixed chunks so large files are never
// loaded whole.
func readLastNLines(file *os.File, n int) ([]string, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return nil, nil
	}

	const chunkSize = 64 * 1024
	var (
		lines    []string
		leftover []byte
	)
	position := stat.Size()

	for position > 0 && len(lines) < n {
		readSize := int64(chunkSize)
		if position < readSize {
			readSize = position
		}
		position -= readSize

		chunk := make([]byte, readSize)
		if _, err := file.ReadAt(chunk, position); err != nil && err != io.EOF {
			return nil, err
		}
		chunk = append(chunk, leftover...)

		parts := bytes.Split(chunk, []byte("\n"))
		leftover = parts[0]
		for i := len(parts) - 1; i > 0 && len(lines) < n; i-- {
			line := string(bytes.TrimRight(parts[i], "\r"))
			// trailing newline at EOF
			if line == "" && len(lines) == 0 && position+readSize == stat.Size() && i == len(parts)-1 {
				continue
			}
			lines = append(lines, line)
		}
	}
	if len(leftover) > 0 && len(lines) < n {
		lines = append(lines, string(leftover))
	}

	// collected newest first
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}
