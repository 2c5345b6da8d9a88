package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"portfolio_api/internal/common"
	"portfolio_api/internal/domain/model"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, category string) ([]model.Project, error)
	ListFeatured(ctx context.Context) ([]model.Project, error)
}

type pgProjectRepository struct {
	db *sql.DB
}

func NewPgProjectRepository(db *sql.DB) ProjectRepository {
	return &pgProjectRepository{db: db}
}

const projectColumns = `id, title, description, category, image_url, live_url, github_url, technologies, price, featured, created_at`

func (r *pgProjectRepository) Create(ctx context.Context, p *model.Project) error {
	query := `INSERT INTO projects (id, title, description, category, image_url, live_url, github_url, technologies, price, featured, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.Category, p.ImageURL, p.LiveURL, p.GithubURL, p.Technologies, p.Price, p.Featured, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `UPDATE projects SET
	            title = $1, description = $2, category = $3, image_url = $4,
	            live_url = $5, github_url = $6, technologies = $7, price = $8, featured = $9
	          WHERE id = $10`
	res, err := r.db.ExecContext(ctx, query,
		p.Title, p.Description, p.Category, p.ImageURL, p.LiveURL, p.GithubURL, p.Technologies, p.Price, p.Featured, p.ID)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Update: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Delete: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p := &model.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.ImageURL, &p.LiveURL, &p.GithubURL, &p.Technologies, &p.Price, &p.Featured, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProjectRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgProjectRepository) List(ctx context.Context, category string) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	args := []interface{}{}
	if category != "" {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE category = $1 ORDER BY created_at DESC`
		args = append(args, category)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgProjectRepository.List: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (r *pgProjectRepository) ListFeatured(ctx context.Context) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE featured = TRUE ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgProjectRepository.ListFeatured: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func scanProjects(rows *sql.Rows) ([]model.Project, error) {
	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Category, &p.ImageURL, &p.LiveURL, &p.GithubURL, &p.Technologies, &p.Price, &p.Featured, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanProjects: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanProjects: %w", err)
	}
	return projects, nil
}
