// Package platform wraps the host desktop's notification service.
package platform

import "time"

// Urgency follows the freedesktop levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed.
type Options struct {
	// AppName identifies the sender where the platform shows it.
	AppName string
	// IconPath points to an image shown with the notification if supported.
	IconPath string
	// Timeout of zero lets the server decide.
	Timeout time.Duration
	Urgency Urgency
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "cropframe"
	}
	return o.AppName
}
