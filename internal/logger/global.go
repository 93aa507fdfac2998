package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GlobalConfig is the application wide logging configuration.
// Zero valued fields keep their current setting when applied.
type GlobalConfig struct {
	DefaultLevel  LogLevel
	PackageLevels map[string]LogLevel
	// ConsoleFormat enables human readable console output instead of JSON.
	ConsoleFormat bool
	Writer        io.Writer
}

type globalFactory struct {
	sync.Mutex
	config                  GlobalConfig
	loggers                 map[string]*ContextLogger
	packageNameResolver     *PackageNameResolver
	globalLoggerInitialized bool
}

// Singleton for managing application wide logging.
var globalFactoryImpl = &globalFactory{
	config: GlobalConfig{
		DefaultLevel: INFO,
		Writer:       os.Stderr,
	},
	loggers:             make(map[string]*ContextLogger),
	packageNameResolver: &PackageNameResolver{BasePackage: "nftbazaar/"},
}

// CreateForPackage creates a logger named after the caller package.
func CreateForPackage() Logger {
	return Create(globalFactoryImpl.packageNameResolver.PackageName())
}

// Create creates a custom named logger.
func Create(name string) Logger {
	return globalFactoryImpl.create(name)
}

// UpdateGlobalConfig updates the global config and all loggers accordingly.
func UpdateGlobalConfig(config GlobalConfig) {
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()

	globalFactoryImpl.updateFromConfig(config)
}

// InitializeGlobalLogger initializes the global logger with the default
// configuration if it hasn't been initialized already. Does nothing otherwise.
func InitializeGlobalLogger() {
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()

	if !globalFactoryImpl.globalLoggerInitialized {
		globalFactoryImpl.updateFromConfig(globalFactoryImpl.config)
	}
}

func (gf *globalFactory) updateFromConfig(config GlobalConfig) {
	if config.Writer != nil {
		gf.config.Writer = config.Writer
	}
	gf.config.DefaultLevel = config.DefaultLevel
	gf.config.PackageLevels = config.PackageLevels
	gf.config.ConsoleFormat = config.ConsoleFormat

	gf.updateOutputFormat()
	gf.updateAllLoggers()
}

func (gf *globalFactory) updateOutputFormat() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var newGlobalLogger zerolog.Logger
	if gf.config.ConsoleFormat {
		newGlobalLogger = log.Logger.Output(zerolog.ConsoleWriter{Out: gf.config.Writer})
	} else {
		newGlobalLogger = zerolog.New(gf.config.Writer).With().Timestamp().Logger()
	}
	log.Logger = newGlobalLogger
	gf.globalLoggerInitialized = true
}

func (gf *globalFactory) updateAllLoggers() {
	for name, l := range gf.loggers {
		l.update(gf.loggerLevel(name))
	}
}

func (gf *globalFactory) create(name string) Logger {
	gf.Lock()
	defer gf.Unlock()

	if l, ok := gf.loggers[name]; ok {
		return l
	}
	// Each package is expected to create a logger named after the package,
	// so the configuration can set levels per package name.
	cl := newContextLogger(name, gf.loggerLevel(name))
	gf.loggers[name] = cl
	return cl
}

func (gf *globalFactory) loggerLevel(loggerName string) LogLevel {
	if level, ok := gf.config.PackageLevels[loggerName]; ok {
		return level
	}
	return gf.config.DefaultLevel
}
