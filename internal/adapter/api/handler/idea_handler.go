package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/domain/entity"
	"growwithme/internal/usecase"
	"growwithme/pkg/response"
	"growwithme/pkg/utils"
)

const defaultSimilarLimit = 5

type IdeaHandler struct {
	ideaUseCase *usecase.IdeaUseCase
	maxPageSize int
}

func NewIdeaHandler(ideaUseCase *usecase.IdeaUseCase, maxPageSize int) *IdeaHandler {
	return &IdeaHandler{
		ideaUseCase: ideaUseCase,
		maxPageSize: maxPageSize,
	}
}

type investmentRequest struct {
	TargetAmount  float64 `json:"targetAmount" validate:"gte=0"`
	EquityPercent float64 `json:"equityPercent" validate:"gte=0,lte=100"`
}

type createIdeaRequest struct {
	Title       string             `json:"title" validate:"required,max=120"`
	Description string             `json:"description" validate:"required,max=5000"`
	Skills      []string           `json:"skills" validate:"omitempty,max=20,dive,max=50"`
	Status      string             `json:"status"`
	Visibility  string             `json:"visibility" validate:"omitempty,oneof=public private"`
	Investment  *investmentRequest `json:"investment"`
}

type updateIdeaRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=120"`
	Description *string            `json:"description" validate:"omitempty,max=5000"`
	Skills      []string           `json:"skills" validate:"omitempty,max=20,dive,max=50"`
	Status      *string            `json:"status"`
	Visibility  *string            `json:"visibility" validate:"omitempty,oneof=public private"`
	Investment  *investmentRequest `json:"investment"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

func (r *investmentRequest) details() entity.InvestmentDetails {
	if r == nil {
		return entity.InvestmentDetails{}
	}
	return entity.InvestmentDetails{TargetAmount: r.TargetAmount, EquityPercent: r.EquityPercent}
}

func (h *IdeaHandler) List(c echo.Context) error {
	params := utils.GetCursorParams(c, h.maxPageSize)

	page, err := h.ideaUseCase.Paginate(c.Request().Context(), params.Cursor, params.PageSize, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Cursor(c, page.Items, page.NextCursor, page.HasMore)
}

func (h *IdeaHandler) Create(c echo.Context) error {
	var req createIdeaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	idea, err := h.ideaUseCase.Post(c.Request().Context(), uid(c), usecase.CreateIdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Status:      req.Status,
		Visibility:  req.Visibility,
		Investment:  req.Investment.details(),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, idea)
}

func (h *IdeaHandler) Get(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	idea, err := h.ideaUseCase.Get(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, idea)
}

func (h *IdeaHandler) Update(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req updateIdeaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.UpdateIdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Status:      req.Status,
		Visibility:  req.Visibility,
	}
	if req.Investment != nil {
		details := req.Investment.details()
		input.Investment = &details
	}

	idea, err := h.ideaUseCase.Update(c.Request().Context(), id, uid(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, idea)
}

func (h *IdeaHandler) Delete(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.ideaUseCase.Delete(c.Request().Context(), id, uid(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Idea deleted"})
}

func (h *IdeaHandler) ToggleLike(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	liked, err := h.ideaUseCase.ToggleLike(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"liked": liked})
}

func (h *IdeaHandler) ListComments(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	comments, err := h.ideaUseCase.ListComments(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, comments)
}

func (h *IdeaHandler) AddComment(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.ideaUseCase.AddComment(c.Request().Context(), id, uid(c), req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, comment)
}

func (h *IdeaHandler) DeleteComment(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	commentID, err := requireParam(c, "commentId")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.ideaUseCase.DeleteComment(c.Request().Context(), id, commentID, uid(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Comment deleted"})
}

func (h *IdeaHandler) Similar(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	limit := utils.GetLimit(c, defaultSimilarLimit, 20)
	similar, err := h.ideaUseCase.Similar(c.Request().Context(), id, uid(c), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, similar)
}
