package log_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/dudk/sigraph"
	"github.com/dudk/sigraph/log"
)

// logrus logger is accepted by the engine.
var _ sigraph.Logger = log.GetLogger()

func TestGetLogger(t *testing.T) {
	log.SetDebug(true)
	assert.Equal(t, logrus.DebugLevel, log.GetLogger().GetLevel())
	log.SetDebug(false)
	assert.Equal(t, logrus.InfoLevel, log.GetLogger().GetLevel())
}
