package uploadImage_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"camGateway/internal/http-server/handlers/image/uploadImage"
	uploaderMocks "camGateway/internal/http-server/handlers/image/uploadImage/mocks"
	kafkaMocks "camGateway/internal/kafka/producer/mocks"
	"camGateway/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "secret123"
	maxUploadSize = 3 << 20
)

func TestUploadImage(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))

	testUUID, _ := uuid.NewRandom()
	testTime := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	storedResult := &models.UploadResult{
		URL:      "https://cdn/x.jpg",
		PublicID: "esp32/esp32-1/abc",
		Width:    640,
		Height:   480,
		Bytes:    51200,
	}

	savedRecord := &models.ImageRecord{
		ID:        testUUID,
		DeviceID:  "esp32-1",
		URL:       "https://cdn/x.jpg",
		PublicID:  "esp32/esp32-1/abc",
		Width:     640,
		Height:    480,
		Bytes:     51200,
		CreatedAt: testTime,
	}

	successBody := fmt.Sprintf(
		`{"ok":true,"url":"https://cdn/x.jpg","public_id":"esp32/esp32-1/abc","width":640,"height":480,"bytes":51200,"imageId":"%s","savedAt":"%s"}`,
		testUUID, testTime.Format(time.RFC3339Nano),
	)
	successBodyNoRecord := `{"ok":true,"url":"https://cdn/x.jpg","public_id":"esp32/esp32-1/abc","width":640,"height":480,"bytes":51200}`

	tests := []struct {
		name           string
		apiKey         string
		apiKeyInQuery  bool
		body           []byte
		noSaver        bool
		wantUpload     bool
		mockUploadErr  error
		wantSave       bool
		mockSaveErr    error
		wantNotify     bool
		mockNotifyErr  error
		wantPublish    bool
		mockKafkaErr   error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success",
			apiKey:         testAPIKey,
			body:           []byte("jpeg bytes"),
			wantUpload:     true,
			wantSave:       true,
			wantNotify:     true,
			wantPublish:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   successBody,
		},
		{
			name:           "Success With Key In Query",
			apiKey:         testAPIKey,
			apiKeyInQuery:  true,
			body:           []byte("jpeg bytes"),
			wantUpload:     true,
			wantSave:       true,
			wantNotify:     true,
			wantPublish:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   successBody,
		},
		{
			name:           "Missing API Key",
			apiKey:         "",
			body:           []byte("jpeg bytes"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"ok":false,"error":"invalid api key"}`,
		},
		{
			name:           "Wrong API Key",
			apiKey:         "not-the-key",
			body:           []byte("jpeg bytes"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"ok":false,"error":"invalid api key"}`,
		},
		{
			name:           "Empty Body",
			apiKey:         testAPIKey,
			body:           []byte{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"ok":false,"error":"empty request body"}`,
		},
		{
			name:           "Body Too Large",
			apiKey:         testAPIKey,
			body:           bytes.Repeat([]byte("x"), maxUploadSize+1),
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody:   `{"ok":false,"error":"image too large"}`,
		},
		{
			name:           "Object Storage Failure",
			apiKey:         testAPIKey,
			body:           []byte("jpeg bytes"),
			wantUpload:     true,
			mockUploadErr:  errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"ok":false,"error":"failed to store image"}`,
		},
		{
			name:           "Metadata Save Failure Is Non-Fatal",
			apiKey:         testAPIKey,
			body:           []byte("jpeg bytes"),
			wantUpload:     true,
			wantSave:       true,
			mockSaveErr:    errors.New("db error"),
			wantNotify:     true,
			wantPublish:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   successBodyNoRecord,
		},
		{
			name:           "No Metadata Store Configured",
			apiKey:         testAPIKey,
			body:           []byte("jpeg bytes"),
			noSaver:        true,
			wantUpload:     true,
			wantNotify:     true,
			wantPublish:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   successBodyNoRecord,
		},
		{
			name:           "Notification Failure Is Non-Fatal",
			apiKey:         testAPIKey,
			body:           []byte("jpeg bytes"),
			wantUpload:     true,
			wantSave:       true,
			wantNotify:     true,
			mockNotifyErr:  errors.New("telegram unavailable"),
			wantPublish:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   successBody,
		},
		{
			name:           "Event Publish Failure Is Non-Fatal",
			apiKey:         testAPIKey,
			body:           []byte("jpeg bytes"),
			wantUpload:     true,
			wantSave:       true,
			wantNotify:     true,
			wantPublish:    true,
			mockKafkaErr:   errors.New("kafka error"),
			expectedStatus: http.StatusOK,
			expectedBody:   successBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploaderMock := uploaderMocks.NewImageUploader(t)
			saverMock := uploaderMocks.NewRecordSaver(t)
			notifierMock := uploaderMocks.NewNotifier(t)
			kafkaProducerMock := kafkaMocks.NewProducerIface(t)

			if tt.wantUpload {
				uploaderMock.On("UploadImage", mock.Anything, "esp32-1", tt.body).
					Return(func() *models.UploadResult {
						if tt.mockUploadErr != nil {
							return nil
						}
						return storedResult
					}(), tt.mockUploadErr).Once()
			}
			if tt.wantSave {
				saverMock.On("SaveImage", mock.Anything, mock.Anything).
					Return(func() *models.ImageRecord {
						if tt.mockSaveErr != nil {
							return nil
						}
						return savedRecord
					}(), tt.mockSaveErr).Once()
			}
			if tt.wantNotify {
				notifierMock.On("Notify", storedResult.URL, mock.Anything).
					Return(tt.mockNotifyErr).Once()
			}
			if tt.wantPublish {
				kafkaProducerMock.On("SendMessage", mock.Anything, mock.Anything).
					Return(tt.mockKafkaErr).Once()
			}

			var saver uploadImage.RecordSaver
			if !tt.noSaver {
				saver = saverMock
			}

			handler := uploadImage.New(log, testAPIKey, maxUploadSize, uploaderMock, saver, notifierMock, kafkaProducerMock)

			target := "/upload"
			if tt.apiKeyInQuery {
				target = "/upload?apiKey=" + tt.apiKey
			}

			req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(tt.body))
			req.Header.Set("x-device-id", "esp32-1")
			if !tt.apiKeyInQuery && tt.apiKey != "" {
				req.Header.Set("x-api-key", tt.apiKey)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)

			var actualMap, expectedMap map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &actualMap))
			require.NoError(t, json.Unmarshal([]byte(tt.expectedBody), &expectedMap))
			require.Equal(t, expectedMap, actualMap)
		})
	}
}

func TestUploadImageDefaultDevice(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))

	uploaderMock := uploaderMocks.NewImageUploader(t)
	uploaderMock.On("UploadImage", mock.Anything, models.DefaultDeviceID, []byte("jpeg bytes")).
		Return(&models.UploadResult{URL: "https://cdn/y.jpg", PublicID: "esp32/unknown_device/def", Bytes: 10}, nil).Once()

	handler := uploadImage.New(log, testAPIKey, maxUploadSize, uploaderMock, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("jpeg bytes")))
	req.Header.Set("x-api-key", testAPIKey)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, true, resp["ok"])
	require.Equal(t, "https://cdn/y.jpg", resp["url"])
	require.NotContains(t, resp, "imageId")
	require.NotContains(t, resp, "savedAt")
}
