package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/eventsim/sim/trace"
)

// Config holds the settings a Simulation is constructed with.
// The zero value is usable: time starts at 0, tracing is off, and log
// output goes to the logrus standard logger.
type Config struct {
	StartTime int64                  // initial value of Now()
	Trace     *trace.SimulationTrace // nil disables tracing
	Logger    *logrus.Entry          // nil uses the standard logger
}

// NewConfig creates a Config from its parts.
func NewConfig(startTime int64, tr *trace.SimulationTrace, logger *logrus.Entry) Config {
	return Config{
		StartTime: startTime,
		Trace:     tr,
		Logger:    logger,
	}
}
