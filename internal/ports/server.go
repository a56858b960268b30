package ports

// Server is a front-facing listener with an explicit lifecycle
type Server interface {
	// Start begins serving in the background
	Start() error

	// Stop shuts the server down, draining in-flight requests
	Stop() error
}
