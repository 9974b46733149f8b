package catalog

import (
	"context"
	"time"

	"github.com/MrEthical07/learnhub"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks
//go:generate mockgen -destination=mocks/mock_learnhub.go -package=mocks github.com/MrEthical07/learnhub AssetHost,Mailer

// Repositories return an error wrapping learnhub.ErrNotFound for missing
// records and learnhub.ErrConflict for unique key violations.

type CourseRepository interface {
	CreateCourse(ctx context.Context, course *Course) error
	UpdateCourse(ctx context.Context, course *Course) error
	FindCourse(ctx context.Context, id string) (*Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	IncrementPurchased(ctx context.Context, id string) error
	CountCoursesCreated(ctx context.Context, from, to time.Time) (int, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	ListOrders(ctx context.Context) ([]Order, error)
	CountOrdersCreated(ctx context.Context, from, to time.Time) (int, error)
}

// NotificationRepository lists notifications newest first.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

type LayoutRepository interface {
	CreateLayout(ctx context.Context, layout *Layout) error
	FindLayout(ctx context.Context, t LayoutType) (*Layout, error)
	UpdateLayout(ctx context.Context, layout *Layout) error
}

// Accounts is the slice of the auth engine that orders need.
type Accounts interface {
	Me(ctx context.Context, identityID string) (*learnhub.Identity, error)
	RecordPurchase(ctx context.Context, identityID, courseID string) (*learnhub.Identity, error)
}

// IdentityDirectory reads durable identities for user analytics and for
// mailing question authors.
type IdentityDirectory interface {
	FindIdentityByID(ctx context.Context, id string) (*learnhub.Identity, error)
	CountIdentitiesCreated(ctx context.Context, from, to time.Time) (int, error)
}
