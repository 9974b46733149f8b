package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/middleware"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ticket, err := s.engine.Register(requestContext(c), learnhub.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":         true,
		"message":         fmt.Sprintf("Please check your email: %s to activate your account!", strings.ToLower(strings.TrimSpace(req.Email))),
		"activationToken": ticket,
	})
}

type activateRequest struct {
	Token string `json:"activation_token" validate:"required"`
	Code  string `json:"activation_code" validate:"required"`
}

func (s *Server) handleActivate(c echo.Context) error {
	var req activateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := s.engine.Activate(requestContext(c), req.Token, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := s.engine.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		return err
	}
	return s.writeSession(c, http.StatusOK, res.Identity, res.Tokens)
}

func (s *Server) writeSession(c echo.Context, status int, identity *learnhub.Identity, pair learnhub.TokenPair) error {
	s.setTokenCookies(c, pair)
	return c.JSON(status, echo.Map{
		"success":     true,
		"user":        identity,
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := s.engine.Logout(requestContext(c), identity.ID); err != nil {
		return err
	}
	s.clearTokenCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// handleRefresh reads the refresh token from its cookie, falling back to a
// bearer header for non-browser clients.
func (s *Server) handleRefresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(middleware.RefreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer "))
	}
	if token == "" {
		return learnhub.ErrRefreshInvalid
	}

	ctx := requestContext(c)
	res, err := s.engine.Refresh(ctx, token)
	if err != nil {
		return err
	}
	c.SetRequest(c.Request().WithContext(middleware.WithIdentity(ctx, res.Identity)))
	s.setTokenCookies(c, res.Tokens)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "accessToken": res.Tokens.AccessToken})
}

func (s *Server) handleMe(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	me, err := s.engine.Me(requestContext(c), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": me})
}

type socialAuthRequest struct {
	Email   string `json:"email" validate:"omitempty,email"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	IDToken string `json:"id_token"`
}

func (s *Server) handleSocialAuth(c echo.Context) error {
	var req socialAuthRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := requestContext(c)

	profile := learnhub.SocialProfile{Email: req.Email, Name: req.Name, Avatar: req.Avatar}
	if s.google != nil {
		if req.IDToken == "" {
			return fmt.Errorf("%w: id_token is required", learnhub.ErrInvalidInput)
		}
		verified, err := s.google.Profile(ctx, req.IDToken)
		if err != nil {
			return fmt.Errorf("%w: %w", learnhub.ErrInvalidInput, err)
		}
		profile = verified
	} else if req.Email == "" {
		return fmt.Errorf("%w: email is required", learnhub.ErrInvalidInput)
	}

	res, err := s.engine.SocialAuth(ctx, profile)
	if err != nil {
		return err
	}
	return s.writeSession(c, http.StatusOK, res.Identity, res.Tokens)
}

type updateInfoRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (s *Server) handleUpdateInfo(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req updateInfoRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := s.engine.UpdateProfile(requestContext(c), identity.ID, learnhub.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": updated})
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

func (s *Server) handleUpdatePassword(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req updatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := s.engine.UpdatePassword(requestContext(c), identity.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": updated})
}

type updateAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

func (s *Server) handleUpdateAvatar(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req updateAvatarRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := s.engine.UpdateAvatar(requestContext(c), identity.ID, req.Avatar)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": updated})
}
