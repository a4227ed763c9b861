package dto

// UploadResponse points at a stored payment-proof image.
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
