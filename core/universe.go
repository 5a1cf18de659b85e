package core

import (
	"levguard/config"
	"levguard/pkg/monitor"
)

// Universe holds every component built at bootstrap. It is passed explicitly
// to the HTTP layer and the runner; nothing here is package-global.
type Universe struct {
	Config  config.Config
	Monitor *monitor.Monitor
	Poller  *monitor.Poller // nil when polling is disabled
}
