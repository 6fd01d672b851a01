package worker

import (
	"github.com/24BytesCo/workitem-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the work
// item event dispatcher. A nil service disables notifications entirely.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
