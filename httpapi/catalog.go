package httpapi

import (
	"net/http"

	"github.com/MrEthical07/learnhub/catalog"
	"github.com/labstack/echo/v4"
)

/* ==== courses ==== */

func (s *Server) handleCreateCourse(c echo.Context) error {
	var in catalog.CourseInput
	if err := bind(c, &in); err != nil {
		return err
	}
	course, err := s.catalog.CreateCourse(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "course": course})
}

func (s *Server) handleEditCourse(c echo.Context) error {
	var in catalog.CourseInput
	if err := bind(c, &in); err != nil {
		return err
	}
	course, err := s.catalog.EditCourse(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "course": course})
}

func (s *Server) handleGetCourse(c echo.Context) error {
	course, err := s.catalog.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "course": course})
}

func (s *Server) handleListCourses(c echo.Context) error {
	courses, err := s.catalog.ListCourses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "courses": courses})
}

func (s *Server) handleCourseContent(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	content, err := s.catalog.CourseContentForUser(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "content": content})
}

func (s *Server) handleAddQuestion(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var in catalog.QuestionInput
	if err := bind(c, &in); err != nil {
		return err
	}
	course, err := s.catalog.AddQuestion(c.Request().Context(), identity, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "course": course})
}

func (s *Server) handleAddReply(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var in catalog.ReplyInput
	if err := bind(c, &in); err != nil {
		return err
	}
	course, err := s.catalog.AddReply(c.Request().Context(), identity, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "course": course})
}

func (s *Server) handleAddReview(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var in catalog.ReviewInput
	if err := bind(c, &in); err != nil {
		return err
	}
	course, err := s.catalog.AddReview(c.Request().Context(), identity, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "course": course})
}

/* ==== orders ==== */

type createOrderRequest struct {
	CourseID    string              `json:"courseId" validate:"required"`
	PaymentInfo catalog.PaymentInfo `json:"payment_info"`
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := s.catalog.PlaceOrder(requestContext(c), identity.ID, req.CourseID, req.PaymentInfo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "order": order})
}

func (s *Server) handleListOrders(c echo.Context) error {
	orders, err := s.catalog.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

/* ==== notifications ==== */

func (s *Server) handleListNotifications(c echo.Context) error {
	list, err := s.catalog.ListNotifications(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "notifications": list})
}

func (s *Server) handleMarkNotification(c echo.Context) error {
	list, err := s.catalog.MarkNotificationRead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "notifications": list})
}

/* ==== analytics ==== */

func (s *Server) handleUserAnalytics(c echo.Context) error {
	report, err := s.catalog.UserAnalytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": report})
}

func (s *Server) handleCourseAnalytics(c echo.Context) error {
	report, err := s.catalog.CourseAnalytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "courses": report})
}

func (s *Server) handleOrderAnalytics(c echo.Context) error {
	report, err := s.catalog.OrderAnalytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": report})
}

/* ==== layout ==== */

func (s *Server) handleCreateLayout(c echo.Context) error {
	var in catalog.LayoutInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if _, err := s.catalog.CreateLayout(c.Request().Context(), in); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Layout created successfully"})
}

func (s *Server) handleEditLayout(c echo.Context) error {
	var in catalog.LayoutInput
	if err := bind(c, &in); err != nil {
		return err
	}
	layout, err := s.catalog.EditLayout(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "layout": layout})
}

func (s *Server) handleGetLayout(c echo.Context) error {
	layout, err := s.catalog.GetLayout(c.Request().Context(), catalog.LayoutType(c.Param("type")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "layout": layout})
}
