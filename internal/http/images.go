package http

import (
	"errors"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/greenleaf/plant-notes/internal/service"
)

func addImagesHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := c.MultipartForm()
		if err != nil || len(form.File["images"]) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No images provided"})
		}

		saved, err := notes.AddImages(c.Request().Context(), c.Param("id"), form.File["images"])
		if err != nil {
			if errors.Is(err, service.ErrNoteNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Note not found"})
			}
			log.Errorf("add images failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		// Files outside the allow-list are skipped, not rejected; a request
		// whose parts were all skipped ends up here with nothing saved.
		if len(saved) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No valid images provided"})
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"message": "Images uploaded successfully",
			"images":  saved,
		})
	}
}

type deleteImageReq struct {
	ImageID string `json:"image_id"`
}

func deleteImageHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req deleteImageReq
		if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ImageID) == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "image_id is required"})
		}

		if err := notes.DeleteImage(c.Request().Context(), req.ImageID); err != nil {
			if errors.Is(err, service.ErrImageNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Image not found"})
			}
			log.Errorf("delete image failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusOK, map[string]string{"message": "Image deleted successfully"})
	}
}

// serveUploadHandler serves a stored file only when the filename resolves to
// an image row scoped to the note and customer in the path.
func serveUploadHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		img, err := notes.ResolveUpload(
			c.Request().Context(),
			c.Param("customer_id"),
			c.Param("note_id"),
			c.Param("filename"),
		)
		if err != nil {
			if errors.Is(err, service.ErrImageNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "File not found"})
			}
			log.Errorf("resolve upload failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.File(img.FilePath)
	}
}
