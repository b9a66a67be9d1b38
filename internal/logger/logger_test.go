package logger

import (
	"io"
	"testing"

	"github.com/maxaizer/jobmarket/internal/config"
	"github.com/maxaizer/jobmarket/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_ErrorCounterHook_ShouldCountByTypeAndLevel(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(newErrorCounterHook())

	dbErrors := metrics.ErrorsCounter.WithLabelValues(ErrorTypeDb, "error")
	authWarnings := metrics.ErrorsCounter.WithLabelValues(ErrorTypeAuthApi, "warning")
	untyped := metrics.ErrorsCounter.WithLabelValues(untypedError, "error")
	untypedWarnings := metrics.ErrorsCounter.WithLabelValues(untypedError, "warning")
	dbBefore, authBefore := testutil.ToFloat64(dbErrors), testutil.ToFloat64(authWarnings)
	untypedBefore, untypedWarningsBefore := testutil.ToFloat64(untyped), testutil.ToFloat64(untypedWarnings)

	logger.WithField(ErrorTypeField, ErrorTypeDb).Error("query failed")
	logger.WithField(ErrorTypeField, ErrorTypeAuthApi).Warn("sign out failed")
	logger.Error("no type")
	logger.Warn("not counted")

	assert.Equal(t, dbBefore+1, testutil.ToFloat64(dbErrors))
	assert.Equal(t, authBefore+1, testutil.ToFloat64(authWarnings))
	assert.Equal(t, untypedBefore+1, testutil.ToFloat64(untyped))
	assert.Equal(t, untypedWarningsBefore, testutil.ToFloat64(untypedWarnings))
}

func Test_ToLogrusLevel_WhenUnknown_ShouldDefaultToInfo(t *testing.T) {
	assert.Equal(t, log.DebugLevel, toLogrusLevel(config.LevelDebug))
	assert.Equal(t, log.WarnLevel, toLogrusLevel(config.LevelWarning))
	assert.Equal(t, log.InfoLevel, toLogrusLevel("VERBOSE"))
}
