package notify

import (
	"net/url"
	"strings"

	"remindly/internal/models"
)

// AckLink builds the acknowledgment deep link embedded in every outbound
// message. Visiting it records a WEB_APP acknowledgment tagged with the
// channel that delivered the link.
func AckLink(appURL, reminderID string, method models.AckMethod) string {
	base := strings.TrimRight(appURL, "/")
	q := url.Values{"method": []string{string(method)}}
	return base + "/acknowledge/" + url.PathEscape(reminderID) + "?" + q.Encode()
}
