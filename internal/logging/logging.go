// Package logging builds the zap logger used by the grid CLI.
package logging

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Supported logging levels, as written in config.yaml.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// ErrInvalidLevel is returned for a level other than none, normal or debug.
var ErrInvalidLevel = errors.New("invalid log level")

// ValidateLevel reports whether level is one of the supported levels. Empty
// means normal.
func ValidateLevel(level string) error {
	switch level {
	case "", LevelNone, LevelNormal, LevelDebug:
		return nil
	}
	return fmt.Errorf("%w: %q (want none, normal or debug)", ErrInvalidLevel, level)
}

// New returns the program logger writing to w. Command output owns stdout, so
// all log records go to a single destination, normally stderr.
func New(level string, w io.Writer) (*zap.Logger, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}

	var enabler zapcore.LevelEnabler
	switch level {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelDebug:
		enabler = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		enabler = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(newEncoder(ec), zapcore.AddSync(w), enabler)
	return zap.New(core).Named("grid"), nil
}

// When logging errors to console do not output the verbose message.

type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
