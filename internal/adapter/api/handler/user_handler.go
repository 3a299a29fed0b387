package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/usecase"
	"growwithme/pkg/errors"
	"growwithme/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Username        *string  `json:"username" validate:"omitempty,min=3,max=20"`
	DisplayName     *string  `json:"displayName" validate:"omitempty,max=80"`
	Role            *string  `json:"role" validate:"omitempty,oneof=founder developer investor"`
	Bio             *string  `json:"bio" validate:"omitempty,max=500"`
	Location        *string  `json:"location" validate:"omitempty,max=100"`
	Phone           *string  `json:"phone"`
	Experience      *string  `json:"experience" validate:"omitempty,max=200"`
	Skills          []string `json:"skills" validate:"omitempty,max=30,dive,max=50"`
	Interests       []string `json:"interests" validate:"omitempty,max=30,dive,max=50"`
	InvestorDomains []string `json:"investorDomains" validate:"omitempty,max=30,dive,max=50"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.GetProfile(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user.Public())
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid(c), usecase.UpdateProfileInput{
		Username:        req.Username,
		DisplayName:     req.DisplayName,
		Role:            req.Role,
		Bio:             req.Bio,
		Location:        req.Location,
		Phone:           req.Phone,
		Experience:      req.Experience,
		Skills:          req.Skills,
		Interests:       req.Interests,
		InvestorDomains: req.InvestorDomains,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) CheckUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return response.Error(c, errors.BadRequest("username is required", nil))
	}

	available, err := h.userUseCase.IsUsernameAvailable(c.Request().Context(), username)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"username":  username,
		"available": available,
	})
}

func (h *UserHandler) UploadAvatar(c echo.Context) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return response.Error(c, errors.BadRequest("avatar file is required", err))
	}
	if file.Size > maxAvatarBytes {
		return response.Error(c, errors.BadRequest("Avatar must be at most 5MB", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read avatar", err))
	}
	defer src.Close()

	url, err := h.userUseCase.UploadAvatar(c.Request().Context(), uid(c), src, file.Header.Get("Content-Type"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"avatarUrl": url})
}
