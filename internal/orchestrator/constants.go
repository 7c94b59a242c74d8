package orchestrator

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StateDirName holds the run journal and lock files, relative to the
// checkout root.
const StateDirName = ".docspub-state"

// Timeout constants for different operations
var (
	// DefaultRunTimeout bounds a whole publish invocation
	DefaultRunTimeout = getTimeoutOrDefault("DOCSPUB_RUN_TIMEOUT", 10*time.Minute, 5*time.Second)
	// RunLockTimeout is how long a run waits for a concurrent run to finish
	RunLockTimeout = getTimeoutOrDefault("DOCSPUB_LOCK_TIMEOUT", 2*time.Minute, 200*time.Millisecond)
	// LockRetryInterval is the polling interval while waiting for the run lock
	LockRetryInterval = getTimeoutOrDefault("DOCSPUB_LOCK_RETRY_INTERVAL", 500*time.Millisecond, 10*time.Millisecond)
	// PushRetryCount is the extra-attempt budget for the force-push step
	PushRetryCount = uint64(getRetryCountOrDefault("DOCSPUB_PUSH_RETRIES", 2, 0))
	// DefaultRetryDelay is the initial delay for exponential backoff
	DefaultRetryDelay = getTimeoutOrDefault("DOCSPUB_RETRY_DELAY", 1*time.Second, 10*time.Millisecond)
)

// isTestEnvironment detects if we're running in a test environment
func isTestEnvironment() bool {
	// Check for testing flags
	for _, arg := range os.Args {
		if strings.Contains(arg, ".test") || strings.Contains(arg, "go test") {
			return true
		}
	}
	// Check for test environment variables
	return os.Getenv("GO_TEST") == "true" || os.Getenv("TEST_MODE") == "true"
}

// getTimeoutOrDefault returns production timeout or test timeout based on environment
func getTimeoutOrDefault(envVar string, prodDefault, testDefault time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}

// getRetryCountOrDefault returns production retry count or test retry count based on environment
func getRetryCountOrDefault(envVar string, prodDefault, testDefault int) int {
	if env := os.Getenv(envVar); env != "" {
		if count, err := strconv.Atoi(env); err == nil {
			return count
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}

// Directory permission constants
const (
	// DirPermissionsDefault is the standard permission for created directories
	DirPermissionsDefault = 0755
	// DirPermissionsSecure is the permission for the state directory
	DirPermissionsSecure = 0700
)
