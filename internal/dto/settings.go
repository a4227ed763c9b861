package dto

// SettingsRequest is the admin payload for updating store settings.
type SettingsRequest struct {
	PrepaymentPercentage float64 `json:"prepayment_percentage"`
}

// SettingsResponse represents the store settings over transport layers.
type SettingsResponse struct {
	PrepaymentPercentage float64 `json:"prepayment_percentage"`
}
