package handler

import (
	"errors"
	"net/http"
	"strconv"

	"portfolio_api/internal/api/middleware"
	"portfolio_api/internal/app/service"
	"portfolio_api/internal/common"

	"github.com/go-chi/chi/v5"
)

// Form parts above this stay in memory; bigger ones spill to temp files.
const maxMultipartMemory = 8 << 20

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(ps *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: ps}
}

func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProjects) // GET /api/projects?category=
	r.Get("/featured", h.listFeatured)
	r.Get("/{projectID}", h.getProject)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Post("/", h.createProject)
		adminRouter.Put("/{projectID}", h.updateProject)
		adminRouter.Delete("/{projectID}", h.deleteProject)
	})
}

func (h *ProjectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	projects, err := h.projectService.List(r.Context(), category)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) listFeatured(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListFeatured(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) getProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) createProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	req := service.CreateProjectRequest{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Category:     r.FormValue("category"),
		LiveURL:      firstFormValue(r, "live_url", "demo_url"),
		GithubURL:    r.FormValue("github_url"),
		Technologies: r.FormValue("technologies"),
		Price:        r.FormValue("price"),
	}
	if v := r.FormValue("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid featured value: "+v)
			return
		}
		req.Featured = featured
	}

	image, closeImage, err := imageFromForm(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid image upload: "+err.Error())
		return
	}
	defer closeImage()

	project, err := h.projectService.Create(r.Context(), req, image)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"id":      project.ID,
		"message": "Project created successfully",
	})
}

func (h *ProjectHandler) updateProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	// Partial update: only fields present in the form are touched.
	var req service.UpdateProjectRequest
	req.Title = optionalFormValue(r, "title")
	req.Description = optionalFormValue(r, "description")
	req.Category = optionalFormValue(r, "category")
	if v := optionalFormValue(r, "live_url"); v != nil {
		req.LiveURL = v
	} else {
		req.LiveURL = optionalFormValue(r, "demo_url")
	}
	req.GithubURL = optionalFormValue(r, "github_url")
	req.Technologies = optionalFormValue(r, "technologies")
	req.Price = optionalFormValue(r, "price")
	if v := optionalFormValue(r, "featured"); v != nil {
		featured, err := strconv.ParseBool(*v)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid featured value: "+*v)
			return
		}
		req.Featured = &featured
	}

	image, closeImage, err := imageFromForm(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid image upload: "+err.Error())
		return
	}
	defer closeImage()

	if err := h.projectService.Update(r.Context(), chi.URLParam(r, "projectID"), req, image); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Project updated successfully"})
}

func (h *ProjectHandler) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}

// imageFromForm extracts the optional "image" part. The returned close func is
// always safe to call.
func imageFromForm(r *http.Request) (*service.ImageUpload, func(), error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	upload := &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}
	return upload, func() { file.Close() }, nil
}

func firstFormValue(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if v := r.FormValue(key); v != "" {
			return v
		}
	}
	return ""
}

func optionalFormValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
