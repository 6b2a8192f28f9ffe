package orchestrator

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Timeout and retry tuning. Remote calls (fetch, pull, push, release) are
// the only latency sources; everything else is local and fast.
var (
	// DefaultRunTimeout bounds a whole tagging run
	DefaultRunTimeout = getTimeoutOrDefault("AUTOTAG_RUN_TIMEOUT", 10*time.Minute, 5*time.Second)
	// DefaultRetryCount is the number of retries for remote operations
	DefaultRetryCount = uint64(getRetryCountOrDefault("AUTOTAG_RETRY_COUNT", 3, 1))
	// DefaultRetryDelay is the initial delay for exponential backoff
	DefaultRetryDelay = getTimeoutOrDefault("AUTOTAG_RETRY_DELAY", 1*time.Second, 100*time.Millisecond)
)

// isTestEnvironment detects if we're running in a test environment
func isTestEnvironment() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, ".test") || strings.Contains(arg, "go test") {
			return true
		}
	}
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
