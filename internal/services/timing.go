package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs the elapsed wall time of a calculation phase at debug level.
// Use with defer: defer TrackTime("Calculate", time.Now()).
func TrackTime(phase string, start time.Time) {
	log.Debugf("%s took %d ms", phase, time.Since(start).Milliseconds())
}
