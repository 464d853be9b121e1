// Package logger implements the console and file logger of an
// experiment
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/logrusorgru/aurora"
)

const lineWidth = 80

// Field is a named value reported by EpochInfo
type Field struct {
	Name  string
	Value interface{}
}

// F returns a new Field
func F(name string, value interface{}) Field {
	return Field{Name: name, Value: value}
}

// Logger logs the progress of an experiment to a console with
// coloured level tags and, optionally, to a log file
type Logger struct {
	name    string
	debug   bool
	au      aurora.Aurora
	console *log.Logger
	file    *log.Logger
	closer  io.Closer
	std     *log.Logger
}

// Config configures a Logger
type Config struct {
	// Dir is the directory of the log file. If empty, no log file is
	// written.
	Dir string

	// Console receives the coloured log lines, os.Stdout if nil
	Console io.Writer

	// Colors enables coloured level tags on the console
	Colors bool

	// Debug enables debug lines
	Debug bool
}

// New returns a new Logger called name. If c.Dir is set, lines are
// also written to <dir>/<name>.log.
func New(name string, c Config) (*Logger, error) {
	console := c.Console
	if console == nil {
		console = os.Stdout
	}

	l := &Logger{
		name:    name,
		debug:   c.Debug,
		au:      aurora.NewAurora(c.Colors),
		console: log.New(console, "", log.LstdFlags),
	}

	stdOut := console
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return nil, fmt.Errorf("new: could not create log directory: %v",
				err)
		}
		f, err := os.Create(filepath.Join(c.Dir, name+".log"))
		if err != nil {
			return nil, fmt.Errorf("new: could not create log file: %v", err)
		}
		l.file = log.New(f, "", log.LstdFlags)
		l.closer = f
		stdOut = io.MultiWriter(console, f)
	}
	l.std = log.New(stdOut, fmt.Sprintf("[%v] ", name), log.LstdFlags)

	return l, nil
}

// Std returns a standard logger which writes to the console and log
// file of the Logger, for use by environment adapters and the episode
// orchestration engine
func (l *Logger) Std() *log.Logger {
	return l.std
}

// Info logs an informational message
func (l *Logger) Info(format string, v ...interface{}) {
	l.print(l.au.Green("INFO"), "INFO", format, v...)
}

// Warning logs a warning
func (l *Logger) Warning(format string, v ...interface{}) {
	l.print(l.au.Yellow("WARNING"), "WARNING", format, v...)
}

// Error logs an error
func (l *Logger) Error(format string, v ...interface{}) {
	l.print(l.au.Red("ERROR"), "ERROR", format, v...)
}

// Debug logs a debug message if debugging is enabled
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.debug {
		l.print(l.au.Cyan("DEBUG"), "DEBUG", format, v...)
	}
}

// StrongLine logs a heavy separator line
func (l *Logger) StrongLine() {
	l.line(strings.Repeat("#", lineWidth))
}

// WeakLine logs a light separator line
func (l *Logger) WeakLine() {
	l.line(strings.Repeat("-", lineWidth))
}

// EpochInfo logs the results of an epoch
func (l *Logger) EpochInfo(epoch int, fields ...Field) {
	var b strings.Builder
	fmt.Fprintf(&b, "Epoch %v", epoch)
	for _, f := range fields {
		b.WriteString(" | ")
		switch v := f.Value.(type) {
		case float64:
			fmt.Fprintf(&b, "%v: %.4f", f.Name, v)
		default:
			fmt.Fprintf(&b, "%v: %v", f.Name, v)
		}
	}
	l.print(l.au.Bold(l.au.Magenta("EPOCH")), "EPOCH", "%v", b.String())
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// print logs a message with the given level tag, coloured on the
// console and plain in the log file
func (l *Logger) print(tag aurora.Value, plain, format string,
	v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.console.Printf("[%v][%v] %v", l.name, tag, msg)
	if l.file != nil {
		l.file.Printf("[%v][%v] %v", l.name, plain, msg)
	}
}

func (l *Logger) line(s string) {
	l.console.Print(s)
	if l.file != nil {
		l.file.Print(s)
	}
}
