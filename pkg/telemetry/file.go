package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileSink appends one JSON object per line to outputPath. It is the
// backend chosen when Config.Sink == SinkFile.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

func NewFileSink(outputPath string) (*FileSink, error) {
	f, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open sink file: %w", err)
	}
	return &FileSink{file: f, enc: json.NewEncoder(f)}, nil
}

func (s *FileSink) write(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(v)
}

func (s *FileSink) RecordResolution(e ResolutionEvent) {
	s.write(struct {
		Kind EventKind `json:"kind"`
		ResolutionEvent
	}{KindResolution, e})
}

func (s *FileSink) RecordRouting(e RoutingEvent) {
	s.write(struct {
		Kind EventKind `json:"kind"`
		RoutingEvent
	}{KindRouting, e})
}

func (s *FileSink) RecordQuery(e QueryEvent) {
	s.write(struct {
		Kind EventKind `json:"kind"`
		QueryEvent
	}{KindQuery, e})
}

func (s *FileSink) RecordMetric(m Metric) {
	s.write(m)
}

func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Sync()
}

func (s *FileSink) Close() error {
	return s.file.Close()
}
