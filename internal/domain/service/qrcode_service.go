package service

// QRCodeService generates QR code images for customer-facing tracking pages.
type QRCodeService interface {
	// GenerateTrackingQR renders a PNG QR code encoding the tracking URL
	// for the given owner and order code.
	GenerateTrackingQR(ownerID, orderCode string) ([]byte, error)
}
