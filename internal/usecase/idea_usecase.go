package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
	"growwithme/pkg/textfilter"
)

// maxPageScans bounds how many raw store pages one Paginate call reads while
// skipping ideas the viewer cannot see.
const maxPageScans = 10

type IdeaUseCase struct {
	ideaRepo    repository.IdeaRepository
	userRepo    repository.UserRepository
	rateLimiter RateLimiter
}

func NewIdeaUseCase(ideaRepo repository.IdeaRepository, userRepo repository.UserRepository, rateLimiter RateLimiter) *IdeaUseCase {
	return &IdeaUseCase{
		ideaRepo:    ideaRepo,
		userRepo:    userRepo,
		rateLimiter: rateLimiter,
	}
}

type CreateIdeaInput struct {
	Title       string
	Description string
	Skills      []string
	Status      string
	Visibility  string
	Investment  entity.InvestmentDetails
}

// UpdateIdeaInput is a partial update: nil fields are left untouched.
type UpdateIdeaInput struct {
	Title       *string
	Description *string
	Skills      []string
	Status      *string
	Visibility  *string
	Investment  *entity.InvestmentDetails
}

type IdeaPage struct {
	Items      []*entity.Idea
	NextCursor string
	HasMore    bool
}

func checkIdeaText(fields ...string) error {
	for _, f := range fields {
		if textfilter.ContainsAbusiveText(f) {
			return errors.Validation("Idea contains inappropriate language")
		}
	}
	return nil
}

func validVisibility(v string) bool {
	return v == entity.VisibilityPublic || v == entity.VisibilityPrivate
}

func normaliseSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(textfilter.StripHTML(s))
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (uc *IdeaUseCase) Post(ctx context.Context, founderID string, input CreateIdeaInput) (*entity.Idea, error) {
	title := strings.TrimSpace(textfilter.StripHTML(input.Title))
	description := strings.TrimSpace(textfilter.StripHTML(input.Description))
	if title == "" || description == "" {
		return nil, errors.BadRequest("Title and description are required", nil)
	}
	if err := checkIdeaText(title, description); err != nil {
		return nil, err
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = entity.VisibilityPublic
	}
	if !validVisibility(visibility) {
		return nil, errors.BadRequest("Visibility must be public or private", nil)
	}
	status := input.Status
	if status == "" {
		status = entity.IdeaStatusRecruiting
	}

	founder, err := uc.userRepo.GetByID(ctx, founderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	idea := &entity.Idea{
		ID:              uuid.New().String(),
		FounderID:       founder.ID,
		FounderName:     founder.Name(),
		FounderUsername: founder.Username,
		FounderAvatar:   founder.AvatarURL,
		Title:           title,
		Description:     description,
		Skills:          normaliseSkills(input.Skills),
		Status:          status,
		Visibility:      visibility,
		Team:            []string{founder.ID},
		Likes:           []string{},
		Comments:        []entity.Comment{},
		Investment:      input.Investment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.ideaRepo.Create(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// viewer resolves the caller; unknown or empty ids browse anonymously.
func (uc *IdeaUseCase) viewer(ctx context.Context, viewerID string) (*entity.User, error) {
	if viewerID == "" {
		return nil, nil
	}
	u, err := uc.userRepo.GetByID(ctx, viewerID)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return u, err
}

// Paginate lists ideas ordered by status then id, keeping only those the
// viewer may see. It keeps reading store pages until the page is full or the
// store is exhausted, so HasMore is true whenever unread ideas remain.
func (uc *IdeaUseCase) Paginate(ctx context.Context, cursor string, pageSize int, viewerID string) (*IdeaPage, error) {
	if pageSize <= 0 {
		return nil, errors.BadRequest("Page size must be positive", nil)
	}
	viewer, err := uc.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	page := &IdeaPage{Items: []*entity.Idea{}}
	after := cursor

	for scan := 0; scan < maxPageScans; scan++ {
		raw, err := uc.ideaRepo.ListPage(ctx, after, pageSize)
		if err != nil {
			return nil, err
		}

		for _, idea := range raw {
			if len(page.Items) == pageSize {
				page.HasMore = true
				page.NextCursor = after
				return page, nil
			}
			after = idea.ID
			if idea.VisibleTo(viewer) {
				page.Items = append(page.Items, idea)
			}
		}

		if len(raw) < pageSize {
			return page, nil
		}
	}

	// scan budget spent with a full last batch: more may remain
	page.HasMore = true
	page.NextCursor = after
	return page, nil
}

func (uc *IdeaUseCase) visibleIdea(ctx context.Context, id, viewerID string) (*entity.Idea, error) {
	idea, err := uc.ideaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	viewer, err := uc.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !idea.VisibleTo(viewer) {
		return nil, errors.NotFound("Idea", nil)
	}
	return idea, nil
}

func (uc *IdeaUseCase) Get(ctx context.Context, id, viewerID string) (*entity.Idea, error) {
	return uc.visibleIdea(ctx, id, viewerID)
}

func (uc *IdeaUseCase) ownedIdea(ctx context.Context, id, actorID string) (*entity.Idea, error) {
	idea, err := uc.ideaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea.FounderID != actorID {
		return nil, errors.Forbidden("Only the founder can modify this idea", nil)
	}
	return idea, nil
}

func (uc *IdeaUseCase) Update(ctx context.Context, id, actorID string, input UpdateIdeaInput) (*entity.Idea, error) {
	if _, err := uc.ownedIdea(ctx, id, actorID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(textfilter.StripHTML(*input.Title))
		if title == "" {
			return nil, errors.BadRequest("Title cannot be empty", nil)
		}
		if err := checkIdeaText(title); err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(textfilter.StripHTML(*input.Description))
		if description == "" {
			return nil, errors.BadRequest("Description cannot be empty", nil)
		}
		if err := checkIdeaText(description); err != nil {
			return nil, err
		}
		fields["description"] = description
	}
	if input.Skills != nil {
		fields["skills"] = normaliseSkills(input.Skills)
	}
	if input.Status != nil {
		if strings.TrimSpace(*input.Status) == "" {
			return nil, errors.BadRequest("Status cannot be empty", nil)
		}
		fields["status"] = strings.TrimSpace(*input.Status)
	}
	if input.Visibility != nil {
		if !validVisibility(*input.Visibility) {
			return nil, errors.BadRequest("Visibility must be public or private", nil)
		}
		fields["visibility"] = *input.Visibility
	}
	if input.Investment != nil {
		if input.Investment.TargetAmount < 0 || input.Investment.EquityPercent < 0 || input.Investment.EquityPercent > 100 {
			return nil, errors.BadRequest("Invalid investment details", nil)
		}
		fields["investment"] = *input.Investment
	}

	if len(fields) > 0 {
		fields["updatedAt"] = time.Now()
		if err := uc.ideaRepo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return uc.ideaRepo.GetByID(ctx, id)
}

func (uc *IdeaUseCase) Delete(ctx context.Context, id, actorID string) error {
	if _, err := uc.ownedIdea(ctx, id, actorID); err != nil {
		return err
	}
	return uc.ideaRepo.Delete(ctx, id)
}

// ToggleLike flips the caller's like and reports whether the idea is now liked.
func (uc *IdeaUseCase) ToggleLike(ctx context.Context, id, userID string) (bool, error) {
	if _, err := uc.visibleIdea(ctx, id, userID); err != nil {
		return false, err
	}
	return uc.ideaRepo.ToggleLike(ctx, id, userID)
}

func (uc *IdeaUseCase) AddComment(ctx context.Context, ideaID, userID, text string) (*entity.Comment, error) {
	if _, err := uc.visibleIdea(ctx, ideaID, userID); err != nil {
		return nil, err
	}
	cleaned := textfilter.Clean(text)
	if cleaned == "" {
		return nil, errors.BadRequest("Comment cannot be empty", nil)
	}
	if err := throttle(uc.rateLimiter, userID, ratelimit.ActionComment, "Too many comments, please wait"); err != nil {
		return nil, err
	}

	author, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ID:           uuid.New().String(),
		IdeaID:       ideaID,
		AuthorID:     author.ID,
		AuthorName:   author.Name(),
		AuthorAvatar: author.AvatarURL,
		Text:         cleaned,
		CreatedAt:    time.Now(),
	}
	if err := uc.ideaRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *IdeaUseCase) DeleteComment(ctx context.Context, ideaID, commentID, actorID string) error {
	if _, err := uc.ownedIdea(ctx, ideaID, actorID); err != nil {
		return err
	}
	return uc.ideaRepo.DeleteComment(ctx, ideaID, commentID)
}

func (uc *IdeaUseCase) ListComments(ctx context.Context, ideaID, viewerID string) ([]*entity.Comment, error) {
	if _, err := uc.visibleIdea(ctx, ideaID, viewerID); err != nil {
		return nil, err
	}
	return uc.ideaRepo.ListComments(ctx, ideaID)
}

// Similar ranks the other ideas the viewer can see by SimilarityScore.
func (uc *IdeaUseCase) Similar(ctx context.Context, ideaID, viewerID string, limit int) ([]ScoredIdea, error) {
	target, err := uc.visibleIdea(ctx, ideaID, viewerID)
	if err != nil {
		return nil, err
	}
	viewer, err := uc.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	all, err := uc.ideaRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]*entity.Idea, 0, len(all))
	for _, idea := range all {
		if idea.VisibleTo(viewer) {
			visible = append(visible, idea)
		}
	}
	return rankSimilar(target, visible, limit), nil
}
