package worker

import (
	"github.com/vhu-platform/complaint-service/internal/service"
)

// StartNotificationWorker registers notification fan-out handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
