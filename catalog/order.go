package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/learnhub"
)

const (
	orderMailSubject  = "Order Confirmation"
	orderMailTemplate = "order-confirmation"
	orderDateLayout   = "January 2, 2006"
)

// PlaceOrder purchases courseID for identityID. The confirmation mail is sent
// before anything is written, so a delivery failure leaves no partial order.
func (s *Service) PlaceOrder(ctx context.Context, identityID, courseID string, payment PaymentInfo) (*Order, error) {
	if s.accounts == nil {
		return nil, errors.New("catalog: accounts are not configured")
	}
	if courseID == "" {
		return nil, fmt.Errorf("%w: course id is required", learnhub.ErrInvalidInput)
	}

	identity, err := s.accounts.Me(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if identity.HasCourse(courseID) {
		return nil, learnhub.ErrAlreadyPurchased
	}

	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if s.mailer != nil {
		data := map[string]any{
			"order": map[string]any{
				"_id":   shortID(course.ID),
				"name":  course.Name,
				"price": course.Price,
				"date":  now.Format(orderDateLayout),
			},
		}
		if err := s.mailer.Send(ctx, identity.Email, orderMailSubject, orderMailTemplate, data); err != nil {
			return nil, fmt.Errorf("%w: %v", learnhub.ErrMailDelivery, err)
		}
	}

	if _, err := s.accounts.RecordPurchase(ctx, identityID, courseID); err != nil {
		return nil, err
	}

	s.notify(ctx, identityID, "New Order", "You have a new Order from "+course.Name)

	if err := s.courses.IncrementPurchased(ctx, courseID); err != nil {
		s.logger.WarnContext(ctx, "purchase counter update failed", "course_id", courseID, "error", err)
	}
	s.evict(ctx, courseID)

	order := &Order{
		ID:          s.newID(),
		CourseID:    courseID,
		UserID:      identityID,
		PaymentInfo: payment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns every order.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.orders.ListOrders(ctx)
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
