package timingutils

import (
	"strconv"
	"time"

	"github.com/prismaasset360/web/internal/global"
	log "github.com/sirupsen/logrus"
)

// GetDeferrableTimingLogger creates a logger function that starts a timer when called and ends the timer when the calling function ends and logs (at debug level) the time diff.
func GetDeferrableTimingLogger(message string) func() {
	if !global.ShowTimingLogs {
		return func() {}
	}

	start := time.Now()
	return func() {
		log.Debugf("%v: %v", message, time.Since(start))
	}
}

// SerializeDuration renders a duration in milliseconds with two decimals, which is how request latencies are logged.
func SerializeDuration(duration time.Duration) string {
	return strconv.FormatFloat(float64(duration)/float64(time.Millisecond), 'f', 2, 64) + "ms"
}
