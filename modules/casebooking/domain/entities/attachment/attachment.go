package attachment

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Descriptor is one file attached to a status transition or amendment. Its
// lifetime is the lifetime of the history entry that introduced it.
type Descriptor struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Payload  string `json:"payload"` // base64-encoded content
}

// New builds a descriptor from raw bytes, sniffing the MIME type from
// content rather than trusting the file name.
func New(name string, data []byte) Descriptor {
	return Descriptor{
		Name:     strings.TrimSpace(name),
		MimeType: mimetype.Detect(data).String(),
		Size:     int64(len(data)),
		Payload:  base64.StdEncoding.EncodeToString(data),
	}
}

// Bytes decodes the payload back to raw content.
func (d Descriptor) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(d.Payload)
}

// Validate checks the descriptor against the configured size cap and
// re-sniffs the MIME type so a mislabelled payload is rejected.
func (d Descriptor) Validate(maxBytes int64) error {
	if d.Name == "" {
		return fmt.Errorf("attachment name is required")
	}
	data, err := d.Bytes()
	if err != nil {
		return fmt.Errorf("attachment %q: invalid base64 payload: %w", d.Name, err)
	}
	if int64(len(data)) != d.Size {
		return fmt.Errorf("attachment %q: declared size %d does not match payload size %d", d.Name, d.Size, len(data))
	}
	if maxBytes > 0 && d.Size > maxBytes {
		return fmt.Errorf("attachment %q: %d bytes exceeds limit of %d", d.Name, d.Size, maxBytes)
	}
	if detected := mimetype.Detect(data).String(); d.MimeType != "" && !mimetype.EqualsAny(d.MimeType, detected) {
		return fmt.Errorf("attachment %q: declared type %s does not match content type %s", d.Name, d.MimeType, detected)
	}
	return nil
}

// ValidateAll validates each descriptor in order.
func ValidateAll(descriptors []Descriptor, maxBytes int64) error {
	for _, d := range descriptors {
		if err := d.Validate(maxBytes); err != nil {
			return err
		}
	}
	return nil
}
