package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger for debug messages
var (
	mu        sync.Mutex
	isVerbose = false
	logFile   *os.File
)

// Log writes a debug message to the log file if verbose mode is enabled
func Log(text string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if isVerbose && logFile != nil {
		fmt.Fprintf(logFile, "%s "+text+"\n", append([]interface{}{time.Now().Format(time.RFC3339)}, args...)...)
	}
}

// DefaultLogPath returns the dated log file used when none is configured
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("tasklist_%s.log", time.Now().Format("2006-01-02")))
}

// InitLogger initializes the logging system. With an empty path the
// dated default under the temp directory is used.
func InitLogger(verbose bool, path string) error {
	mu.Lock()
	defer mu.Unlock()

	isVerbose = verbose
	if !verbose {
		return nil
	}

	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		isVerbose = false
		return fmt.Errorf("error creating log file: %w", err)
	}
	logFile = f
	fmt.Fprintf(logFile, "%s Verbose logging enabled\n", time.Now().Format(time.RFC3339))
	return nil
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	isVerbose = false
}
