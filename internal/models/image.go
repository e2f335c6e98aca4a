package models

import (
	"github.com/google/uuid"
	"time"
)

// DefaultDeviceID is used when an upload carries no device identifier.
const DefaultDeviceID = "unknown_device"

// ImageRecord is the persisted metadata for one stored image. The ID is
// internal: it is returned to the uploader once and never serialized in
// listings.
type ImageRecord struct {
	ID        uuid.UUID `db:"id" json:"-"`
	DeviceID  string    `db:"device_id" json:"deviceId"`
	URL       string    `db:"url" json:"url"`
	PublicID  string    `db:"public_id" json:"publicId"`
	Width     int       `db:"width" json:"width"`
	Height    int       `db:"height" json:"height"`
	Bytes     int64     `db:"bytes" json:"bytes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UploadResult describes an object accepted by the object store.
type UploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Bytes    int64
}
