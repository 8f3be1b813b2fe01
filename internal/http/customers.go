package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/greenleaf/plant-notes/internal/model"
	"github.com/greenleaf/plant-notes/internal/report"
	"github.com/greenleaf/plant-notes/internal/repository"
	"github.com/greenleaf/plant-notes/internal/service"
	"github.com/greenleaf/plant-notes/internal/util"
)

type createCustomerReq struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func createCustomerHandler(customers repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createCustomerReq
		if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Customer name is required"})
		}

		customer := model.Customer{
			ID:          util.New(),
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Address:     req.Address,
			DateCreated: time.Now().Format(time.RFC3339),
		}

		if err := customers.Insert(c.Request().Context(), customer); err != nil {
			if errors.Is(err, repository.ErrDuplicateName) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Customer name already exists"})
			}
			log.Errorf("insert customer failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusCreated, customer)
	}
}

func listCustomersHandler(customers repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		all, err := customers.List(c.Request().Context())
		if err != nil {
			log.Errorf("list customers failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusOK, all)
	}
}

func getCustomerHandler(customers repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		customer, err := customers.GetByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			log.Errorf("get customer failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		if customer == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
		}

		return c.JSON(http.StatusOK, customer)
	}
}

// customerNotesHandler lists one customer's notes with an optional status
// filter, wrapped with the customer's current name.
func customerNotesHandler(customers repository.CustomersRepository, notes *service.Notes) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		customer, err := customers.GetByID(ctx, c.Param("id"))
		if err != nil {
			log.Errorf("get customer failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		if customer == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
		}

		var status model.NoteStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			st, ok := model.ParseNoteStatus(raw)
			if !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
			}
			status = st
		}

		list, err := notes.List(ctx, customer.ID, status)
		if err != nil {
			log.Errorf("list customer notes failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"customer_name": customer.Name,
			"notes":         list,
		})
	}
}

// customerReportHandler renders the customer's note history as a PDF
// attachment. Images are excluded from the report; any generation failure
// surfaces as a generic 500 with detail only in the server log.
func customerReportHandler(customers repository.CustomersRepository, notes repository.NotesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		customer, err := customers.GetByID(ctx, c.Param("id"))
		if err != nil {
			log.Errorf("get customer failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		if customer == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
		}

		list, err := notes.List(ctx, customer.ID, "")
		if err != nil {
			log.Errorf("list notes for report failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		pdf, err := report.Generate(*customer, list)
		if err != nil {
			log.Errorf("report generation failed for customer %s: %v", customer.ID, err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate report"})
		}

		filename := "plant_care_report_" + strings.ReplaceAll(customer.Name, " ", "_") + ".pdf"
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))

		return c.Blob(http.StatusOK, "application/pdf", pdf)
	}
}
