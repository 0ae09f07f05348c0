package app

const (
	Name           = "netwarden"
	SourceURL      = "https://github.com/netwarden/netwarden"
	ConfigFilename = "config.json"
	DBFilename     = "cache.db"
	LogFilename    = "netwarden.log"

	// MinBackendVersion is the oldest backend this client can talk to.
	// The settings scope parameter appeared in 1.3.0.
	MinBackendVersion = "1.3.0"

	// DashboardIDS and DashboardCompliance identify the two settings
	// scopes exposed by the backend.
	DashboardIDS        = "ids"
	DashboardCompliance = "compliance"
)
