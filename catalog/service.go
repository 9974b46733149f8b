package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Asset folders used by the catalog.
const (
	courseFolder = "courses"
	layoutFolder = "layout"
)

// Deps wires a Service. Courses, Orders, Notifications and Layouts are
// required; the rest degrade the operations that need them.
type Deps struct {
	Courses       CourseRepository
	Orders        OrderRepository
	Notifications NotificationRepository
	Layouts       LayoutRepository
	Accounts      Accounts
	Identities    IdentityDirectory
	Assets        learnhub.AssetHost
	Mailer        learnhub.Mailer
	Cache         *CourseCache
	Logger        *slog.Logger
	Clock         func() time.Time
	NewID         func() string
}

// Service implements courses, orders, notifications, homepage layout and
// analytics on top of the repositories.
type Service struct {
	courses       CourseRepository
	orders        OrderRepository
	notifications NotificationRepository
	layouts       LayoutRepository
	accounts      Accounts
	identities    IdentityDirectory
	assets        learnhub.AssetHost
	mailer        learnhub.Mailer
	cache         *CourseCache
	logger        *slog.Logger
	clock         func() time.Time
	newID         func() string
	sanitizer     *sanitizer
	inflight      singleflight.Group
	locks         courseLocks
}

// NewService validates d and returns a Service.
func NewService(d Deps) (*Service, error) {
	if d.Courses == nil || d.Orders == nil || d.Notifications == nil || d.Layouts == nil {
		return nil, errors.New("catalog: course, order, notification and layout repositories are required")
	}
	s := &Service{
		courses:       d.Courses,
		orders:        d.Orders,
		notifications: d.Notifications,
		layouts:       d.Layouts,
		accounts:      d.Accounts,
		identities:    d.Identities,
		assets:        d.Assets,
		mailer:        d.Mailer,
		cache:         d.Cache,
		logger:        d.Logger,
		clock:         d.Clock,
		newID:         d.NewID,
		sanitizer:     newSanitizer(),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

func (s *Service) upload(ctx context.Context, payload, folder string) (*learnhub.AssetRef, error) {
	if s.assets == nil {
		return nil, fmt.Errorf("%w: no asset host configured", learnhub.ErrInvalidInput)
	}
	ref, err := s.assets.Upload(ctx, payload, folder)
	if err != nil {
		return nil, fmt.Errorf("upload to %s: %w", folder, err)
	}
	return &ref, nil
}

// destroy removes a replaced asset. Failures leave an orphan and are logged.
func (s *Service) destroy(ctx context.Context, ref *learnhub.AssetRef) {
	if s.assets == nil || ref == nil || ref.PublicID == "" {
		return
	}
	if err := s.assets.Destroy(ctx, ref.PublicID); err != nil {
		s.logger.WarnContext(ctx, "asset destroy failed", "public_id", ref.PublicID, "error", err)
	}
}
