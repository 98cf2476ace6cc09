package hwcontrol

// Observer is implemented by anything that wants hardware notifications.
type Observer interface {
	ReceivedNotification(n Notification)
}

// ObserverFunc lets a plain function act as an Observer.
type ObserverFunc func(n Notification)

func (f ObserverFunc) ReceivedNotification(n Notification) {
	f(n)
}
