package listImages

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"camGateway/internal/lib/api/response"
	"camGateway/internal/lib/logger/sl"
	"camGateway/internal/models"

	"github.com/go-chi/render"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Response struct {
	response.Response
	Images []models.ImageRecord `json:"images"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageLister
type ImageLister interface {
	ListImages(ctx context.Context, deviceID string, limit int) ([]models.ImageRecord, error)
}

// New builds the listing handler. This read path is intentionally
// unauthenticated.
// @Summary      Lists recent images
// @Description  Returns recent image records, newest first
// @Tags         images
// @Produce      json
// @Param        limit     query  int     false  "Max records to return (default 20, max 100)"
// @Param        deviceId  query  string  false  "Filter by device identifier"
// @Success      200  {object}  listImages.Response
// @Failure      500  {object}  response.Response
// @Router       /images [get]
func New(log *slog.Logger, imageLister ImageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.listImages.New"

		log := log.With(
			slog.String("op", op),
		)

		if imageLister == nil {
			log.Error("metadata store is not configured")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("metadata store is not configured"))
			return
		}

		limit := defaultLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
				limit = n
			}
		}
		if limit > maxLimit {
			limit = maxLimit
		}

		deviceID := r.URL.Query().Get("deviceId")

		images, err := imageLister.ListImages(r.Context(), deviceID, limit)
		if err != nil {
			log.Error("failed to list images", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list images"))
			return
		}

		log.Info("images listed", slog.Int("count", len(images)), slog.String("device_id", deviceID))

		render.JSON(w, r, Response{
			Response: response.OK(),
			Images:   images,
		})
	}
}
