package archivist

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/voodooEntity/synapse/src/system/interfaces"
)

const (
	LEVEL_DEBUG   = 1
	LEVEL_INFO    = 2
	LEVEL_WARNING = 3
	LEVEL_ERROR   = 4
	LEVEL_FATAL   = 5
)

// Granular debug verbosity, only relevant when LogLevel is LEVEL_DEBUG
const (
	DEBUG_LEVEL_TRACE  = iota + 1 // execution flow tracing
	DEBUG_LEVEL_INFO              // informational debug messages
	DEBUG_LEVEL_DETAIL            // more detailed output
	DEBUG_LEVEL_DUMP              // dumping whole data structures
	DEBUG_LEVEL_MAX               // everything
)

var levelNames = map[int]string{
	LEVEL_DEBUG:   "debug",
	LEVEL_INFO:    "info",
	LEVEL_WARNING: "warning",
	LEVEL_ERROR:   "error",
	LEVEL_FATAL:   "fatal",
}

type Archivist struct {
	logger     interfaces.LoggerInterface
	logLevel   int
	debugLevel int
}

type Config struct {
	Logger     interfaces.LoggerInterface
	LogLevel   int
	DebugLevel int
}

func New(conf *Config) *Archivist {
	a := &Archivist{}

	// default to stdout logging in case no logger is given
	a.SetLogger(conf.Logger)
	a.SetLogLevel(conf.LogLevel)

	// debug verbosity only matters when we actually log debug lines
	if conf.LogLevel == LEVEL_DEBUG {
		a.SetDebugLevel(conf.DebugLevel)
	}

	return a
}

func (a *Archivist) store(level int, formatted bool, message string, params []interface{}) {
	// dispatch the caller file+line for the log prefix
	_, file, line, _ := runtime.Caller(2)
	parts := strings.Split(file, "/")
	caller := parts[len(parts)-1] + "#" + strconv.Itoa(line)

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("|")
	sb.WriteString(levelNames[level])
	sb.WriteString("|")
	sb.WriteString(caller)
	sb.WriteString("|")
	if formatted {
		sb.WriteString(fmt.Sprintf(message, params...))
	} else {
		sb.WriteString(message)
		if 0 < len(params) {
			sb.WriteString("|")
			sb.WriteString(fmt.Sprintf("%+v", params))
		}
	}

	a.logger.Println(sb.String())
}

func (a *Archivist) Debug(level int, message string, params ...interface{}) {
	if a.logLevel <= LEVEL_DEBUG && level <= a.debugLevel {
		a.store(LEVEL_DEBUG, false, message, params)
	}
}

func (a *Archivist) DebugF(level int, message string, params ...interface{}) {
	if a.logLevel <= LEVEL_DEBUG && level <= a.debugLevel {
		a.store(LEVEL_DEBUG, true, message, params)
	}
}

func (a *Archivist) Info(message string, params ...interface{}) {
	if a.logLevel <= LEVEL_INFO {
		a.store(LEVEL_INFO, false, message, params)
	}
}

func (a *Archivist) InfoF(message string, params ...interface{}) {
	if a.logLevel <= LEVEL_INFO {
		a.store(LEVEL_INFO, true, message, params)
	}
}

func (a *Archivist) Warning(message string, params ...interface{}) {
	if a.logLevel <= LEVEL_WARNING {
		a.store(LEVEL_WARNING, false, message, params)
	}
}

func (a *Archivist) WarningF(message string, params ...interface{}) {
	if a.logLevel <= LEVEL_WARNING {
		a.store(LEVEL_WARNING, true, message, params)
	}
}

func (a *Archivist) Error(message string, params ...interface{}) {
	if a.logLevel <= LEVEL_ERROR {
		a.store(LEVEL_ERROR, false, message, params)
	}
}

func (a *Archivist) ErrorF(message string, params ...interface{}) {
	if a.logLevel <= LEVEL_ERROR {
		a.store(LEVEL_ERROR, true, message, params)
	}
}

func (a *Archivist) Fatal(message string, params ...interface{}) {
	a.store(LEVEL_FATAL, false, message, params)
}

func (a *Archivist) FatalF(message string, params ...interface{}) {
	a.store(LEVEL_FATAL, true, message, params)
}

func (a *Archivist) SetLogLevel(logLevel int) {
	// check for non initialized log level first
	if 0 == logLevel {
		logLevel = LEVEL_WARNING
	}
	if logLevel < LEVEL_DEBUG || logLevel > LEVEL_FATAL {
		a.Error("Given LOG_LEVEL is unknown, defaulting to LEVEL_WARNING, provided was: ", logLevel)
		logLevel = LEVEL_WARNING
	}
	a.logLevel = logLevel
}

func (a *Archivist) SetDebugLevel(level int) {
	if level < 0 {
		level = 0
	}
	a.debugLevel = level
}

func (a *Archivist) SetLogger(logger interfaces.LoggerInterface) {
	if nil == logger {
		logger = log.New(os.Stdout, "", 0)
	}
	a.logger = logger
}
