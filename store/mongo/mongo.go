package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/catalog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	identitiesCollection    = "users"
	coursesCollection       = "courses"
	ordersCollection        = "orders"
	notificationsCollection = "notifications"
	layoutsCollection       = "layouts"
)

var (
	_ learnhub.IdentityStore         = (*Store)(nil)
	_ catalog.CourseRepository       = (*Store)(nil)
	_ catalog.OrderRepository        = (*Store)(nil)
	_ catalog.NotificationRepository = (*Store)(nil)
	_ catalog.LayoutRepository       = (*Store)(nil)
)

type Store struct {
	identities    *mongo.Collection
	courses       *mongo.Collection
	orders        *mongo.Collection
	notifications *mongo.Collection
	layouts       *mongo.Collection
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	const op = "mongo.Connect"

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

func New(db *mongo.Database) *Store {
	return &Store{
		identities:    db.Collection(identitiesCollection),
		courses:       db.Collection(coursesCollection),
		orders:        db.Collection(ordersCollection),
		notifications: db.Collection(notificationsCollection),
		layouts:       db.Collection(layoutsCollection),
	}
}

// EnsureIndexes creates the unique and time-range indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	const op = "mongo.EnsureIndexes"

	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)}
	}
	byCreated := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}

	plan := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.identities, []mongo.IndexModel{unique("email"), byCreated}},
		{s.courses, []mongo.IndexModel{byCreated}},
		{s.orders, []mongo.IndexModel{byCreated}},
		{s.notifications, []mongo.IndexModel{byCreated}},
		{s.layouts, []mongo.IndexModel{unique("type")}},
	}
	for _, p := range plan {
		if _, err := p.coll.Indexes().CreateMany(ctx, p.models); err != nil {
			return fmt.Errorf("%s: %s: %w", op, p.coll.Name(), err)
		}
	}
	return nil
}

// mapError translates driver errors into learnhub sentinels.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, learnhub.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, learnhub.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func requireMatch(op string, res *mongo.UpdateResult, err error) error {
	if err != nil {
		return mapError(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, learnhub.ErrNotFound)
	}
	return nil
}

func createdBetween(from, to time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}}
}

func newestFirst() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func countCreated(ctx context.Context, coll *mongo.Collection, op string, from, to time.Time) (int, error) {
	n, err := coll.CountDocuments(ctx, createdBetween(from, to))
	if err != nil {
		return 0, mapError(op, err)
	}
	return int(n), nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, op string) ([]T, error) {
	cur, err := coll.Find(ctx, bson.M{}, newestFirst())
	if err != nil {
		return nil, mapError(op, err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

/* ==== identities ==== */

func (s *Store) CreateIdentity(ctx context.Context, identity *learnhub.Identity) error {
	_, err := s.identities.InsertOne(ctx, identity)
	return mapError("mongo.CreateIdentity", err)
}

func (s *Store) FindIdentityByID(ctx context.Context, id string) (*learnhub.Identity, error) {
	var identity learnhub.Identity
	if err := s.identities.FindOne(ctx, bson.M{"_id": id}).Decode(&identity); err != nil {
		return nil, mapError("mongo.FindIdentityByID", err)
	}
	return &identity, nil
}

func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (*learnhub.Identity, error) {
	var identity learnhub.Identity
	if err := s.identities.FindOne(ctx, bson.M{"email": email}).Decode(&identity); err != nil {
		return nil, mapError("mongo.FindIdentityByEmail", err)
	}
	return &identity, nil
}

func (s *Store) UpdateIdentity(ctx context.Context, identity *learnhub.Identity) error {
	res, err := s.identities.ReplaceOne(ctx, bson.M{"_id": identity.ID}, identity)
	return requireMatch("mongo.UpdateIdentity", res, err)
}

func (s *Store) CountIdentitiesCreated(ctx context.Context, from, to time.Time) (int, error) {
	return countCreated(ctx, s.identities, "mongo.CountIdentitiesCreated", from, to)
}

/* ==== courses ==== */

func (s *Store) CreateCourse(ctx context.Context, course *catalog.Course) error {
	_, err := s.courses.InsertOne(ctx, course)
	return mapError("mongo.CreateCourse", err)
}

// UpdateCourse replaces everything but the purchase counter.
func (s *Store) UpdateCourse(ctx context.Context, course *catalog.Course) error {
	doc, err := bson.Marshal(course)
	if err != nil {
		return fmt.Errorf("mongo.UpdateCourse: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(doc, &fields); err != nil {
		return fmt.Errorf("mongo.UpdateCourse: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "purchased")

	res, err := s.courses.UpdateOne(ctx, bson.M{"_id": course.ID}, bson.M{"$set": fields})
	return requireMatch("mongo.UpdateCourse", res, err)
}

func (s *Store) FindCourse(ctx context.Context, id string) (*catalog.Course, error) {
	var course catalog.Course
	if err := s.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		return nil, mapError("mongo.FindCourse", err)
	}
	return &course, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	return findAll[catalog.Course](ctx, s.courses, "mongo.ListCourses")
}

func (s *Store) IncrementPurchased(ctx context.Context, id string) error {
	res, err := s.courses.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"purchased": 1}})
	return requireMatch("mongo.IncrementPurchased", res, err)
}

func (s *Store) CountCoursesCreated(ctx context.Context, from, to time.Time) (int, error) {
	return countCreated(ctx, s.courses, "mongo.CountCoursesCreated", from, to)
}

/* ==== orders ==== */

func (s *Store) CreateOrder(ctx context.Context, order *catalog.Order) error {
	_, err := s.orders.InsertOne(ctx, order)
	return mapError("mongo.CreateOrder", err)
}

func (s *Store) ListOrders(ctx context.Context) ([]catalog.Order, error) {
	return findAll[catalog.Order](ctx, s.orders, "mongo.ListOrders")
}

func (s *Store) CountOrdersCreated(ctx context.Context, from, to time.Time) (int, error) {
	return countCreated(ctx, s.orders, "mongo.CountOrdersCreated", from, to)
}

/* ==== notifications ==== */

func (s *Store) CreateNotification(ctx context.Context, n *catalog.Notification) error {
	cp := *n
	if cp.Status == "" {
		cp.Status = catalog.NotificationUnread
	}
	_, err := s.notifications.InsertOne(ctx, &cp)
	return mapError("mongo.CreateNotification", err)
}

func (s *Store) ListNotifications(ctx context.Context) ([]catalog.Notification, error) {
	return findAll[catalog.Notification](ctx, s.notifications, "mongo.ListNotifications")
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.notifications.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": catalog.NotificationRead, "updatedAt": time.Now()}},
	)
	return requireMatch("mongo.MarkNotificationRead", res, err)
}

/* ==== layouts ==== */

func (s *Store) CreateLayout(ctx context.Context, layout *catalog.Layout) error {
	_, err := s.layouts.InsertOne(ctx, layout)
	return mapError("mongo.CreateLayout", err)
}

func (s *Store) FindLayout(ctx context.Context, t catalog.LayoutType) (*catalog.Layout, error) {
	var layout catalog.Layout
	if err := s.layouts.FindOne(ctx, bson.M{"type": t}).Decode(&layout); err != nil {
		return nil, mapError("mongo.FindLayout", err)
	}
	return &layout, nil
}

func (s *Store) UpdateLayout(ctx context.Context, layout *catalog.Layout) error {
	res, err := s.layouts.ReplaceOne(ctx, bson.M{"type": layout.Type}, layout)
	return requireMatch("mongo.UpdateLayout", res, err)
}
