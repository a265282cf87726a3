package controllers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"meetapp/internal/delivery/http/helpers"
	"meetapp/internal/domain"
)

// maxBannerSize caps uploaded banners at 5 MiB.
const maxBannerSize = 5 << 20

type FileController struct {
	Logger     *slog.Logger
	BannerRepo domain.BannerRepository
	UploadDir  string
}

func NewFileController(logger *slog.Logger, bannerRepo domain.BannerRepository, uploadDir string) *FileController {
	return &FileController{
		Logger:     logger,
		BannerRepo: bannerRepo,
		UploadDir:  uploadDir,
	}
}

// Upload godoc
// @Summary Upload a banner image
// @Description Stores the uploaded file under the upload directory and records a banner row. The response carries the derived public URL.
// @Tags files
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Banner image"
// @Success 201 {object} helpers.APIResponse "data is the banner with its url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /files [post]
func (c *FileController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBannerSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unsupported file type")
		return
	}

	storedName := uuid.NewString() + ext
	if err := os.MkdirAll(c.UploadDir, 0o755); err != nil {
		c.Logger.ErrorContext(r.Context(), "failed to create upload dir", "dir", c.UploadDir, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	dst, err := os.Create(filepath.Join(c.UploadDir, storedName))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "failed to store upload", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	banner := domain.NewBanner(header.Filename, storedName, time.Now())
	if err := c.BannerRepo.Create(r.Context(), banner); err != nil {
		c.Logger.ErrorContext(r.Context(), "failed to persist banner", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, banner)
}
