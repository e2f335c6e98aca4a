package uploadImage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"camGateway/internal/kafka/producer"
	"camGateway/internal/lib/api/response"
	"camGateway/internal/lib/logger/sl"
	"camGateway/internal/models"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type Response struct {
	response.Response
	URL      string     `json:"url"`
	PublicID string     `json:"public_id"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Bytes    int64      `json:"bytes"`
	ImageID  *uuid.UUID `json:"imageId,omitempty"`
	SavedAt  *time.Time `json:"savedAt,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageUploader
type ImageUploader interface {
	UploadImage(ctx context.Context, deviceID string, data []byte) (*models.UploadResult, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RecordSaver
type RecordSaver interface {
	SaveImage(ctx context.Context, rec models.ImageRecord) (*models.ImageRecord, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Notifier
type Notifier interface {
	Notify(imageURL string, caption string) error
}

// New builds the upload handler. saver, notifier and kafkaProducer may be nil
// when the corresponding collaborator is not configured; a stored image is
// reported as success even if every optional step is skipped or fails.
// @Summary      Uploads a camera image
// @Description  Accepts a raw JPEG body from a device, stores it and records metadata
// @Tags         images
// @Accept       octet-stream
// @Produce      json
// @Param        x-api-key    header  string  true   "API key"
// @Param        x-device-id  header  string  false  "Device identifier"
// @Success      200  {object}  uploadImage.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /upload [post]
func New(
	log *slog.Logger,
	apiKey string,
	maxUploadSize int64,
	uploader ImageUploader,
	saver RecordSaver,
	notifier Notifier,
	kafkaProducer producer.ProducerIface,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.uploadImage.New"

		log := log.With(
			slog.String("op", op),
		)

		key := r.Header.Get("x-api-key")
		if key == "" {
			key = r.URL.Query().Get("apiKey")
		}
		if key == "" || key != apiKey {
			log.Warn("rejected upload with invalid api key", slog.String("remote_addr", r.RemoteAddr))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid api key"))
			return
		}

		deviceID := r.Header.Get("x-device-id")
		if deviceID == "" {
			deviceID = r.URL.Query().Get("deviceId")
		}
		if deviceID == "" {
			deviceID = models.DefaultDeviceID
		}

		log = log.With(slog.String("device_id", deviceID))

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				log.Error("request body too large", slog.Int64("limit", maxBytesErr.Limit))
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error("image too large"))
				return
			}

			log.Error("failed to read request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read request body"))
			return
		}

		if len(data) == 0 {
			log.Error("received empty body")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request body"))
			return
		}

		result, err := uploader.UploadImage(r.Context(), deviceID, data)
		if err != nil {
			log.Error("failed to store image", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to store image"))
			return
		}

		log.Info("image stored", slog.String("public_id", result.PublicID), slog.Int64("bytes", result.Bytes))

		resp := Response{
			Response: response.OK(),
			URL:      result.URL,
			PublicID: result.PublicID,
			Width:    result.Width,
			Height:   result.Height,
			Bytes:    result.Bytes,
		}

		// Metadata persistence is best-effort: the image is already durable in
		// the object store, so a failed insert must not fail the upload.
		if saver != nil {
			saved, err := saver.SaveImage(r.Context(), models.ImageRecord{
				DeviceID: deviceID,
				URL:      result.URL,
				PublicID: result.PublicID,
				Width:    result.Width,
				Height:   result.Height,
				Bytes:    result.Bytes,
			})
			if err != nil {
				log.Error("failed to save image metadata", sl.Err(err))
			} else {
				resp.ImageID = &saved.ID
				resp.SavedAt = &saved.CreatedAt
			}
		}

		if notifier != nil {
			caption := fmt.Sprintf("New image from %s at %s", deviceID, time.Now().Format("2006-01-02 15:04:05"))
			if err = notifier.Notify(result.URL, caption); err != nil {
				log.Error("failed to send notification", sl.Err(err))
			}
		}

		if kafkaProducer != nil {
			event := struct {
				DeviceID string     `json:"device_id"`
				URL      string     `json:"url"`
				PublicID string     `json:"public_id"`
				Bytes    int64      `json:"bytes"`
				ImageID  *uuid.UUID `json:"image_id,omitempty"`
			}{
				DeviceID: deviceID,
				URL:      result.URL,
				PublicID: result.PublicID,
				Bytes:    result.Bytes,
				ImageID:  resp.ImageID,
			}

			message, err := json.Marshal(event)
			if err != nil {
				log.Error("failed to marshal upload event", sl.Err(err))
			} else if err = kafkaProducer.SendMessage(r.Context(), message); err != nil {
				log.Error("failed to publish upload event", sl.Err(err))
			}
		}

		render.JSON(w, r, resp)
	}
}
