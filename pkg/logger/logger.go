package logger

import (
	"fmt"
	"os"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[37m"
)

var debugEnabled = os.Getenv("LOG_DEBUG") != ""

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func line(color, level, msg string) {
	fmt.Printf("%s[%s]%s %s%s%s %s\n", colorGray, timestamp(), colorReset, color, level, colorReset, msg)
}

func Info(format string, args ...interface{}) {
	line(colorBlue, "INFO ", fmt.Sprintf(format, args...))
}

func Success(format string, args ...interface{}) {
	line(colorGreen, "✓    ", fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	line(colorYellow, "WARN ", fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	line(colorRed, "ERROR", fmt.Sprintf(format, args...))
}

func Debug(format string, args ...interface{}) {
	if !debugEnabled {
		return
	}
	line(colorPurple, "DEBUG", fmt.Sprintf(format, args...))
}

// Worker logs with a cyan subsystem tag, used by background workers and jobs.
func Worker(name, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s[%s]%s %s[%s]%s %s\n", colorGray, timestamp(), colorReset, colorCyan, name, colorReset, msg)
}

// Command logs a command invocation with the command name as tag.
func Command(name, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s[%s]%s %s[cmd:%s]%s %s\n", colorGray, timestamp(), colorReset, colorCyan, name, colorReset, msg)
}
