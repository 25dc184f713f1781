package document

import "fmt"

// recordingLogger captures warnings for assertions.
type recordingLogger struct {
	NopLogger
	warnings *[]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{warnings: new([]string)}
}

func (r *recordingLogger) Warn(msg string, attrs ...any) {
	*r.warnings = append(*r.warnings, fmt.Sprint(append([]any{msg}, attrs...)...))
}

func (r *recordingLogger) With(_ ...any) Logger { return r }
