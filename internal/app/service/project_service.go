package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"portfolio_api/internal/common"
	"portfolio_api/internal/domain/model"
	"portfolio_api/internal/domain/repository"
	"portfolio_api/internal/storage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxImageSize is the upload ceiling for project images.
const MaxImageSize = 5 << 20 // 5MB

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ImageUpload carries a fully-buffered multipart image part.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ProjectService struct {
	projectRepo repository.ProjectRepository
	images      storage.Store
}

func NewProjectService(projectRepo repository.ProjectRepository, images storage.Store) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, images: images}
}

type CreateProjectRequest struct {
	Title        string
	Description  string
	Category     string
	LiveURL      string
	GithubURL    string
	Technologies string
	Price        string
	Featured     bool
}

// UpdateProjectRequest applies only the fields that were present in the form.
type UpdateProjectRequest struct {
	Title        *string
	Description  *string
	Category     *string
	LiveURL      *string
	GithubURL    *string
	Technologies *string
	Price        *string
	Featured     *bool
}

func (s *ProjectService) List(ctx context.Context, category string) ([]model.Project, error) {
	return s.projectRepo.List(ctx, category)
}

func (s *ProjectService) ListFeatured(ctx context.Context) ([]model.Project, error) {
	return s.projectRepo.ListFeatured(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.projectRepo.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest, image *ImageUpload) (*model.Project, error) {
	if req.Title == "" || req.Category == "" {
		return nil, fmt.Errorf("title and category are required: %w", common.ErrValidation)
	}
	if !model.IsValidCategory(req.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", req.Category, common.ErrValidation)
	}

	// The image must be stored before the row exists, so a project never
	// references an asset that was rejected mid-write.
	var imageURL *string
	if image != nil {
		url, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	project := &model.Project{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		ImageURL:     imageURL,
		LiveURL:      req.LiveURL,
		GithubURL:    req.GithubURL,
		Technologies: req.Technologies,
		Price:        req.Price,
		Featured:     req.Featured,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, req UpdateProjectRequest, image *ImageUpload) error {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return fmt.Errorf("title cannot be empty: %w", common.ErrValidation)
		}
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Category != nil {
		if !model.IsValidCategory(*req.Category) {
			return fmt.Errorf("unknown category %q: %w", *req.Category, common.ErrValidation)
		}
		project.Category = *req.Category
	}
	if req.LiveURL != nil {
		project.LiveURL = *req.LiveURL
	}
	if req.GithubURL != nil {
		project.GithubURL = *req.GithubURL
	}
	if req.Technologies != nil {
		project.Technologies = *req.Technologies
	}
	if req.Price != nil {
		project.Price = *req.Price
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}

	if image != nil {
		url, err := s.storeImage(ctx, image)
		if err != nil {
			return err
		}
		// The old blob stays behind; cleaning it up is not worth a
		// partial-failure mode on update.
		project.ImageURL = &url
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.projectRepo.Delete(ctx, id)
}

// storeImage validates the upload and persists it under a generated name,
// returning the public URL path.
func (s *ProjectService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(image.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return "", fmt.Errorf("file extension %q is not an allowed image type: %w", ext, common.ErrUnsupportedMedia)
	}
	if _, ok := allowedImageTypes[strings.ToLower(image.ContentType)]; !ok {
		return "", fmt.Errorf("content type %q is not an allowed image type: %w", image.ContentType, common.ErrUnsupportedMedia)
	}
	if image.Size > MaxImageSize {
		return "", fmt.Errorf("image exceeds %d bytes: %w", MaxImageSize, common.ErrPayloadTooLarge)
	}

	stem := strings.TrimSuffix(filepath.Base(image.Filename), filepath.Ext(image.Filename))
	name := slug.Make(stem) + "-" + uuid.NewString() + ext
	if err := s.images.Save(ctx, name, image.Reader, image.Size, image.ContentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return "/uploads/" + name, nil
}
