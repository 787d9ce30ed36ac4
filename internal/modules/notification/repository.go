package notification

import "context"

// Repository defines notification persistence.
type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error

	// ListNotifications returns notifications newest first. unreadOnly
	// narrows to unread ones.
	ListNotifications(ctx context.Context, unreadOnly bool) ([]*Notification, error)

	// MarkRead flags a notification as read. Marking an already-read
	// notification is a no-op, not an error.
	MarkRead(ctx context.Context, id string) (*Notification, error)
}
