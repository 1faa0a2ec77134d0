package amqp

import (
	"encoding/json"
	"time"
)

// ExportRequestMessage asks the worker to export one owner's monthly report.
// It carries only the coordinates; the worker fetches the data itself.
type ExportRequestMessage struct {
	OwnerID     string    `json:"ownerId"`
	Month       string    `json:"month"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewExportRequestMessage creates an export request for one owner and month
func NewExportRequestMessage(ownerID, month string) *ExportRequestMessage {
	return &ExportRequestMessage{
		OwnerID:     ownerID,
		Month:       month,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON creates a message from JSON bytes
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
