package domain

// ClientConn is the read-only view of a live protocol client that the
// registry needs: its wire identity and whether it still holds a connection.
type ClientConn interface {
	Identifier() string
	IsOnline() bool
}

type SessionStatus string

const (
	SessionConnecting           SessionStatus = "connecting"
	SessionAwaitingSlider       SessionStatus = "awaiting_slider"
	SessionAwaitingQRCode       SessionStatus = "awaiting_qrcode"
	SessionAwaitingDeviceChoice SessionStatus = "awaiting_device_choice"
	SessionAwaitingSMS          SessionStatus = "awaiting_sms"
	SessionOnline               SessionStatus = "online"
	SessionFailed               SessionStatus = "failed"
)

// Session binds an account to its protocol client. Sessions with status
// Online live in the registry; Failed sessions are discarded by the
// orchestrator and not retried within the same run.
type Session struct {
	AccountID   AccountID
	DisplayName string
	Client      ClientConn
	Status      SessionStatus
}
