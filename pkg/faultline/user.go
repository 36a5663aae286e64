// user.go defines the user and operating system contexts attached to events.

package faultline

// User identifies the user affected by an event.
type User struct {
	ID        string
	Username  string
	Email     string
	IPAddress string
	Segment   string

	// Metadata holds free-form user attributes. Named fields win on collision.
	Metadata map[string]any
}

// OSContext describes the operating system the event was captured on.
type OSContext struct {
	Name          string
	Version       string
	Build         string
	KernelVersion string
}
