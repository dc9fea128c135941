package debug

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var logger atomic.Pointer[log.Logger]

func init() {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.Caller(4))
	logger.Store(&l)
}

// Logger returns the logger debug output is written to.
func Logger() log.Logger {
	return *logger.Load()
}

// SetLogger replaces the logger debug output is written to.
func SetLogger(l log.Logger) {
	logger.Store(&l)
}

// Logf formats a debug message and logs it at debug level.
func Logf(msg string, args ...any) {
	level.Debug(Logger()).Log("msg", fmt.Sprintf(msg, args...))
}
