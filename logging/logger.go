package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Level int

const (
	FATAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

var levelNames = map[Level]string{
	FATAL:   "fatal",
	ERROR:   "error",
	WARNING: "warn",
	INFO:    "",
	DEBUG:   "debug",
}

type Record struct {
	Level     Level
	Component string
	Message   string
}

const (
	CLEARLINE = "\x1b[2K"
)

func Debugf(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{DEBUG, "", fmt.Sprintf(msg, args...)})
}

func Infof(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{INFO, "", fmt.Sprintf(msg, args...)})
}

func Warnf(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{WARNING, "", fmt.Sprintf(msg, args...)})
}

func Errorf(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{ERROR, "", fmt.Sprintf(msg, args...)})
}

// Progress replaces the current progress line. Progress lines are
// suppressed in quiet mode.
func Progress(msg string) {
	defaultBroker.printProgress(msg)
}

func SetQuiet(quiet bool) {
	defaultBroker.mu.Lock()
	defaultBroker.quiet = quiet
	defaultBroker.mu.Unlock()
}

// SetOutput changes the destination of all log output (stderr by default).
func SetOutput(w io.Writer) {
	defaultBroker.mu.Lock()
	defaultBroker.out = w
	defaultBroker.mu.Unlock()
}

type Logger struct {
	Component string
}

func (l *Logger) Print(args ...interface{}) {
	defaultBroker.printRecord(Record{INFO, l.Component, fmt.Sprint(args...)})
}

func (l *Logger) Printf(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{INFO, l.Component, fmt.Sprintf(msg, args...)})
}

// Fatal logs and exits the process with status 1.
func (l *Logger) Fatal(args ...interface{}) {
	defaultBroker.printRecord(Record{FATAL, l.Component, fmt.Sprint(args...)})
	Shutdown()
	os.Exit(1)
}

func (l *Logger) Fatalf(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{FATAL, l.Component, fmt.Sprintf(msg, args...)})
	Shutdown()
	os.Exit(1)
}

func (l *Logger) Errorf(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{ERROR, l.Component, fmt.Sprintf(msg, args...)})
}

func (l *Logger) Warn(args ...interface{}) {
	defaultBroker.printRecord(Record{WARNING, l.Component, fmt.Sprint(args...)})
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{WARNING, l.Component, fmt.Sprintf(msg, args...)})
}

func (l *Logger) Printfl(level Level, msg string, args ...interface{}) {
	defaultBroker.printRecord(Record{level, l.Component, fmt.Sprintf(msg, args...)})
}

// StartStep logs the start of a long running step. Pass the returned
// value to StopStep to log the duration.
func (l *Logger) StartStep(msg string) string {
	defaultBroker.startStep(Step{l.Component, msg})
	return msg
}

func (l *Logger) StopStep(msg string) {
	defaultBroker.stopStep(Step{l.Component, msg})
}

func NewLogger(component string) *Logger {
	return &Logger{component}
}

type Step struct {
	Component string
	Name      string
}

type broker struct {
	mu           sync.Mutex
	out          io.Writer
	quiet        bool
	steps        map[Step]time.Time
	newline      bool
	lastProgress string
	now          func() time.Time
}

func (b *broker) startStep(step Step) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.steps[step] = b.now()
	b.writeRecord(Record{INFO, step.Component, "[step] Starting: " + step.Name})
}

func (b *broker) stopStep(step Step) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, ok := b.steps[step]
	if !ok {
		return
	}
	delete(b.steps, step)
	duration := b.now().Sub(start)
	b.writeRecord(Record{INFO, step.Component, "[step] Finished: " + step.Name + " in " + duration.String()})
}

func (b *broker) printRecord(record Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeRecord(record)
}

func (b *broker) printProgress(progress string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.quiet {
		return
	}
	b.writeProgress(progress)
}

func (b *broker) writePrefix() {
	fmt.Fprint(b.out, "[", b.now().Format(time.Stamp), "] ")
}

func (b *broker) writeRecord(record Record) {
	if !b.newline {
		fmt.Fprint(b.out, CLEARLINE)
	}
	b.writePrefix()
	if name := levelNames[record.Level]; name != "" {
		fmt.Fprint(b.out, "[", name, "] ")
	}
	if record.Component != "" {
		fmt.Fprint(b.out, "[", record.Component, "] ")
	}
	fmt.Fprintln(b.out, record.Message)
	b.newline = true
	if b.lastProgress != "" && !b.quiet {
		b.writeProgress(b.lastProgress)
	}
}

func (b *broker) writeProgress(progress string) {
	b.writePrefix()
	fmt.Fprint(b.out, progress, "\r")
	b.lastProgress = progress
	b.newline = false
}

// Shutdown terminates a pending progress line. Call before the process exits.
func Shutdown() {
	defaultBroker.mu.Lock()
	defer defaultBroker.mu.Unlock()
	if !defaultBroker.newline {
		fmt.Fprintln(defaultBroker.out)
		defaultBroker.newline = true
	}
	defaultBroker.lastProgress = ""
}

var defaultBroker = newBroker(os.Stderr)

func newBroker(out io.Writer) *broker {
	return &broker{
		out:     out,
		steps:   make(map[Step]time.Time),
		newline: true,
		now:     time.Now,
	}
}
