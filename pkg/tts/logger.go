package tts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	logPath = "logs/tts.log"
	mu      sync.RWMutex
)

// SetLogPath configures the path for the TTS log file. An empty path
// disables logging.
func SetLogPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = path
}

// Log appends one synthesis request and its outcome to the TTS log
// file. Shared by all providers so every SSML/text payload that went
// to an engine can be replayed when debugging timing issues.
func Log(provider, payload string, status int, err error) {
	mu.RLock()
	path := logPath
	mu.RUnlock()
	if path == "" {
		return
	}

	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, openErr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		return
	}
	defer f.Close()

	outcome := fmt.Sprintf("%d", status)
	if err != nil {
		outcome = fmt.Sprintf("ERROR(%v)", err)
	}
	fmt.Fprintf(f, "[%s] [%s] %s\n%s\n----\n",
		time.Now().Format("2006-01-02 15:04:05"), provider, outcome, payload)
}
