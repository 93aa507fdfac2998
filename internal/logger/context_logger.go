package logger

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ContextLogger is a named logger writing through the global zerolog instance.
type ContextLogger struct {
	zeroLogger *zerolog.Logger
	name       string
	level      LogLevel
}

// newContextLogger creates the logger, but doesn't initialize it yet.
// This is needed so loggers can be created in var phase and the global
// log configuration applied later.
func newContextLogger(name string, level LogLevel) *ContextLogger {
	return &ContextLogger{
		zeroLogger: nil,
		name:       name,
		level:      level,
	}
}

// init creates the zerolog instance with the attributes set in the constructor.
func (c *ContextLogger) init() {
	c.update(c.level)
	InitializeGlobalLogger()
}

func (c *ContextLogger) update(level LogLevel) {
	c.level = level
	zeroLogger := log.Level(toZeroLevel(level)).With().Str("module", c.name).Logger()
	c.zeroLogger = &zeroLogger
}

func (c *ContextLogger) Trace(format string, args ...interface{}) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.logMessage(c.zeroLogger.Trace(), format, args)
}

func (c *ContextLogger) Debug(format string, args ...interface{}) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.logMessage(c.zeroLogger.Debug(), format, args)
}

func (c *ContextLogger) Info(format string, args ...interface{}) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.logMessage(c.zeroLogger.Info(), format, args)
}

func (c *ContextLogger) Warning(format string, args ...interface{}) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.logMessage(c.zeroLogger.Warn(), format, args)
}

func (c *ContextLogger) Error(format string, args ...interface{}) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.logMessage(c.zeroLogger.Error(), format, args)
}

func (c *ContextLogger) ChangeLevel(newLevel LogLevel) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.update(newLevel)
}

func (c *ContextLogger) logMessage(event *zerolog.Event, format string, args []interface{}) {
	if len(args) == 0 {
		event.Msg(format)
		return
	}
	event.Msg(fmt.Sprintf(format, args...))
}

func toZeroLevel(level LogLevel) zerolog.Level {
	switch level {
	case NONE:
		return zerolog.Disabled
	case ERROR:
		return zerolog.ErrorLevel
	case WARNING:
		return zerolog.WarnLevel
	case INFO:
		return zerolog.InfoLevel
	case DEBUG:
		return zerolog.DebugLevel
	case TRACE:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
