package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/catalog"
)

// Store holds every collection behind one lock.
type Store struct {
	mu            sync.RWMutex
	identities    map[string]*learnhub.Identity
	emails        map[string]string
	courses       map[string]*catalog.Course
	orders        []catalog.Order
	notifications map[string]*catalog.Notification
	layouts       map[catalog.LayoutType]*catalog.Layout
}

var (
	_ learnhub.IdentityStore         = (*Store)(nil)
	_ catalog.CourseRepository       = (*Store)(nil)
	_ catalog.OrderRepository        = (*Store)(nil)
	_ catalog.NotificationRepository = (*Store)(nil)
	_ catalog.LayoutRepository       = (*Store)(nil)
)

func New() *Store {
	return &Store{
		identities:    make(map[string]*learnhub.Identity),
		emails:        make(map[string]string),
		courses:       make(map[string]*catalog.Course),
		notifications: make(map[string]*catalog.Notification),
		layouts:       make(map[catalog.LayoutType]*catalog.Layout),
	}
}

func notFound(kind, key string) error {
	return fmt.Errorf("%w: %s %q", learnhub.ErrNotFound, kind, key)
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

/* ==== identities ==== */

func (s *Store) CreateIdentity(_ context.Context, identity *learnhub.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(identity.Email)
	if _, ok := s.emails[email]; ok {
		return fmt.Errorf("%w: email %q", learnhub.ErrConflict, email)
	}
	if _, ok := s.identities[identity.ID]; ok {
		return fmt.Errorf("%w: identity %q", learnhub.ErrConflict, identity.ID)
	}
	s.identities[identity.ID] = identity.Clone()
	s.emails[email] = identity.ID
	return nil
}

func (s *Store) FindIdentityByID(_ context.Context, id string) (*learnhub.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[id]
	if !ok {
		return nil, notFound("identity", id)
	}
	return identity.Clone(), nil
}

func (s *Store) FindIdentityByEmail(_ context.Context, email string) (*learnhub.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, notFound("identity", email)
	}
	return s.identities[id].Clone(), nil
}

// UpdateIdentity replaces the stored identity and moves its email index.
func (s *Store) UpdateIdentity(_ context.Context, identity *learnhub.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.identities[identity.ID]
	if !ok {
		return notFound("identity", identity.ID)
	}
	email := strings.ToLower(identity.Email)
	if owner, taken := s.emails[email]; taken && owner != identity.ID {
		return fmt.Errorf("%w: email %q", learnhub.ErrConflict, email)
	}
	delete(s.emails, strings.ToLower(current.Email))
	s.emails[email] = identity.ID
	s.identities[identity.ID] = identity.Clone()
	return nil
}

func (s *Store) CountIdentitiesCreated(_ context.Context, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, identity := range s.identities {
		if inWindow(identity.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

/* ==== courses ==== */

func (s *Store) CreateCourse(_ context.Context, course *catalog.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[course.ID]; ok {
		return fmt.Errorf("%w: course %q", learnhub.ErrConflict, course.ID)
	}
	s.courses[course.ID] = course.Clone()
	return nil
}

func (s *Store) UpdateCourse(_ context.Context, course *catalog.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[course.ID]; !ok {
		return notFound("course", course.ID)
	}
	s.courses[course.ID] = course.Clone()
	return nil
}

func (s *Store) FindCourse(_ context.Context, id string) (*catalog.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	return course.Clone(), nil
}

// ListCourses returns courses newest first.
func (s *Store) ListCourses(_ context.Context) ([]catalog.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, *c.Clone())
	}
	slices.SortFunc(out, func(a, b catalog.Course) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *Store) IncrementPurchased(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return notFound("course", id)
	}
	course.Purchased++
	return nil
}

func (s *Store) CountCoursesCreated(_ context.Context, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.courses {
		if inWindow(c.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

/* ==== orders ==== */

func (s *Store) CreateOrder(_ context.Context, order *catalog.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, *order)
	return nil
}

// ListOrders returns orders newest first.
func (s *Store) ListOrders(_ context.Context) ([]catalog.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.orders)
	slices.Reverse(out)
	return out, nil
}

func (s *Store) CountOrdersCreated(_ context.Context, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, o := range s.orders {
		if inWindow(o.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

/* ==== notifications ==== */

func (s *Store) CreateNotification(_ context.Context, n *catalog.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *n
	if cp.Status == "" {
		cp.Status = catalog.NotificationUnread
	}
	s.notifications[n.ID] = &cp
	return nil
}

func (s *Store) ListNotifications(_ context.Context) ([]catalog.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, *n)
	}
	slices.SortFunc(out, func(a, b catalog.Notification) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return notFound("notification", id)
	}
	n.Status = catalog.NotificationRead
	return nil
}

/* ==== layouts ==== */

func (s *Store) CreateLayout(_ context.Context, layout *catalog.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layouts[layout.Type]; ok {
		return fmt.Errorf("%w: layout %q", learnhub.ErrConflict, layout.Type)
	}
	cp := *layout
	s.layouts[layout.Type] = &cp
	return nil
}

func (s *Store) FindLayout(_ context.Context, t catalog.LayoutType) (*catalog.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layout, ok := s.layouts[t]
	if !ok {
		return nil, notFound("layout", string(t))
	}
	cp := *layout
	return &cp, nil
}

func (s *Store) UpdateLayout(_ context.Context, layout *catalog.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layouts[layout.Type]; !ok {
		return notFound("layout", string(layout.Type))
	}
	cp := *layout
	s.layouts[layout.Type] = &cp
	return nil
}
