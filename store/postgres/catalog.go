package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrEthical07/learnhub/catalog"
	"github.com/jackc/pgx/v5"
)

var (
	_ catalog.CourseRepository       = (*Store)(nil)
	_ catalog.OrderRepository        = (*Store)(nil)
	_ catalog.NotificationRepository = (*Store)(nil)
	_ catalog.LayoutRepository       = (*Store)(nil)
)

// collect decodes one jsonb column per row.
func collect[T any](rows pgx.Rows, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func decodeOne[T any](row pgx.Row) (*T, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &v, nil
}

/* ==== courses ==== */

func (s *Store) CreateCourse(ctx context.Context, course *catalog.Course) error {
	const op = "postgres.CreateCourse"

	doc, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.db.Exec(ctx,
		"INSERT INTO courses (id, doc, purchased, created_at) VALUES ($1, $2, $3, $4)",
		course.ID, doc, course.Purchased, course.CreatedAt,
	)
	return mapError(op, err)
}

// UpdateCourse rewrites the document but keeps the purchase counter owned
// by IncrementPurchased.
func (s *Store) UpdateCourse(ctx context.Context, course *catalog.Course) error {
	const op = "postgres.UpdateCourse"

	doc, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tag, err := s.db.Exec(ctx, "UPDATE courses SET doc = $2 WHERE id = $1", course.ID, doc)
	return requireRow(op, tag, err)
}

func (s *Store) FindCourse(ctx context.Context, id string) (*catalog.Course, error) {
	const op = "postgres.FindCourse"

	var (
		raw       []byte
		purchased int
	)
	err := s.db.QueryRow(ctx, "SELECT doc, purchased FROM courses WHERE id = $1", id).Scan(&raw, &purchased)
	if err != nil {
		return nil, mapError(op, err)
	}
	var course catalog.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		return nil, fmt.Errorf("%s: decode document: %w", op, err)
	}
	course.Purchased = purchased
	return &course, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	const op = "postgres.ListCourses"

	rows, err := s.db.Query(ctx, "SELECT doc || jsonb_build_object('purchased', purchased) FROM courses ORDER BY created_at DESC")
	courses, err := collect[catalog.Course](rows, err)
	if err != nil {
		return nil, mapError(op, err)
	}
	return courses, nil
}

func (s *Store) IncrementPurchased(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "UPDATE courses SET purchased = purchased + 1 WHERE id = $1", id)
	return requireRow("postgres.IncrementPurchased", tag, err)
}

func (s *Store) CountCoursesCreated(ctx context.Context, from, to time.Time) (int, error) {
	return count(ctx, s.db, "postgres.CountCoursesCreated", "courses", from, to)
}

/* ==== orders ==== */

func (s *Store) CreateOrder(ctx context.Context, order *catalog.Order) error {
	const op = "postgres.CreateOrder"

	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.db.Exec(ctx, "INSERT INTO orders (id, doc, created_at) VALUES ($1, $2, $3)", order.ID, doc, order.CreatedAt)
	return mapError(op, err)
}

func (s *Store) ListOrders(ctx context.Context) ([]catalog.Order, error) {
	rows, err := s.db.Query(ctx, "SELECT doc FROM orders ORDER BY created_at DESC")
	orders, err := collect[catalog.Order](rows, err)
	if err != nil {
		return nil, mapError("postgres.ListOrders", err)
	}
	return orders, nil
}

func (s *Store) CountOrdersCreated(ctx context.Context, from, to time.Time) (int, error) {
	return count(ctx, s.db, "postgres.CountOrdersCreated", "orders", from, to)
}

/* ==== notifications ==== */

func (s *Store) CreateNotification(ctx context.Context, n *catalog.Notification) error {
	const op = "postgres.CreateNotification"

	status := n.Status
	if status == "" {
		status = catalog.NotificationUnread
	}
	doc, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.db.Exec(ctx,
		"INSERT INTO notifications (id, doc, status, created_at) VALUES ($1, $2, $3, $4)",
		n.ID, doc, status, n.CreatedAt,
	)
	return mapError(op, err)
}

func (s *Store) ListNotifications(ctx context.Context) ([]catalog.Notification, error) {
	rows, err := s.db.Query(ctx,
		"SELECT doc || jsonb_build_object('status', status) FROM notifications ORDER BY created_at DESC",
	)
	list, err := collect[catalog.Notification](rows, err)
	if err != nil {
		return nil, mapError("postgres.ListNotifications", err)
	}
	return list, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "UPDATE notifications SET status = $2 WHERE id = $1", id, catalog.NotificationRead)
	return requireRow("postgres.MarkNotificationRead", tag, err)
}

/* ==== layouts ==== */

func (s *Store) CreateLayout(ctx context.Context, layout *catalog.Layout) error {
	const op = "postgres.CreateLayout"

	doc, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.db.Exec(ctx, "INSERT INTO layouts (id, type, doc) VALUES ($1, $2, $3)", layout.ID, string(layout.Type), doc)
	return mapError(op, err)
}

func (s *Store) FindLayout(ctx context.Context, t catalog.LayoutType) (*catalog.Layout, error) {
	layout, err := decodeOne[catalog.Layout](s.db.QueryRow(ctx, "SELECT doc FROM layouts WHERE type = $1", string(t)))
	if err != nil {
		return nil, mapError("postgres.FindLayout", err)
	}
	return layout, nil
}

func (s *Store) UpdateLayout(ctx context.Context, layout *catalog.Layout) error {
	const op = "postgres.UpdateLayout"

	doc, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tag, err := s.db.Exec(ctx, "UPDATE layouts SET doc = $2 WHERE type = $1", string(layout.Type), doc)
	return requireRow(op, tag, err)
}
