package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/greenleaf/plant-notes/internal/model"
	"github.com/greenleaf/plant-notes/internal/service"
)

const invalidStatusMsg = "Invalid status. Must be healthy, unhealthy, or treated"

type createNoteReq struct {
	CustomerID string `json:"customer_id" form:"customer_id"`
	PlantName  string `json:"plant_name" form:"plant_name"`
	Condition  string `json:"condition" form:"condition"`
	Treatment  string `json:"recommended_treatment" form:"recommended_treatment"`
	Status     string `json:"status" form:"status"`
}

// createNoteHandler accepts either a JSON body or a multipart form carrying
// the same fields plus optional "images" file parts.
func createNoteHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createNoteReq
		var files []*multipart.FileHeader

		ct := c.Request().Header.Get(echo.HeaderContentType)
		if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
			req = createNoteReq{
				CustomerID: c.FormValue("customer_id"),
				PlantName:  c.FormValue("plant_name"),
				Condition:  c.FormValue("condition"),
				Treatment:  c.FormValue("recommended_treatment"),
				Status:     c.FormValue("status"),
			}
			if form, err := c.MultipartForm(); err == nil {
				files = form.File["images"]
			}
		} else if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		}

		if req.CustomerID == "" || req.PlantName == "" || req.Condition == "" || req.Treatment == "" || req.Status == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		}

		status, ok := model.ParseNoteStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidStatusMsg})
		}

		note, err := notes.Create(c.Request().Context(), service.CreateNote{
			CustomerID: req.CustomerID,
			PlantName:  req.PlantName,
			Condition:  req.Condition,
			Treatment:  req.Treatment,
			Status:     status,
		}, files)
		if err != nil {
			if errors.Is(err, service.ErrCustomerNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
			}
			log.Errorf("create note failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusCreated, note)
	}
}

func listNotesHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		customerID := strings.TrimSpace(c.QueryParam("customer_id"))
		// An unknown status value simply matches no rows, same as filtering
		// the table by it directly.
		status := model.NoteStatus(strings.ToLower(strings.TrimSpace(c.QueryParam("status"))))

		list, err := notes.List(c.Request().Context(), customerID, status)
		if err != nil {
			log.Errorf("list notes failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusOK, list)
	}
}

func getNoteHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		note, err := notes.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, service.ErrNoteNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Note not found"})
			}
			log.Errorf("get note failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusOK, note)
	}
}

type updateNoteReq struct {
	PlantName *string `json:"plant_name"`
	Condition *string `json:"condition"`
	Treatment *string `json:"recommended_treatment"`
	Status    *string `json:"status"`
}

func updateNoteHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateNoteReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No data provided"})
		}

		patch := model.NotePatch{
			PlantName: req.PlantName,
			Condition: req.Condition,
			Treatment: req.Treatment,
		}
		if req.Status != nil {
			status, ok := model.ParseNoteStatus(*req.Status)
			if !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
			}
			patch.Status = &status
		}

		if patch.Empty() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No valid fields to update"})
		}

		note, err := notes.Update(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			if errors.Is(err, service.ErrNoteNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Note not found"})
			}
			log.Errorf("update note failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusOK, note)
	}
}

func deleteNoteHandler(notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := notes.Delete(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, service.ErrNoteNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Note not found"})
			}
			log.Errorf("delete note failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusOK, map[string]string{"message": "Note deleted successfully"})
	}
}
