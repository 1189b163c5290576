package verification

// SendCodeRequest asks for a code to be delivered to phone.
type SendCodeRequest struct {
	Phone     string `json:"phone"`
	Channel   string `json:"channel"`
	ListingID string `json:"listingId"`
}

type ConfirmCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type SendCodeResponse struct {
	ExpiresAt string `json:"expiresAt"`
}

type ConfirmCodeResponse struct {
	VerificationToken string `json:"verificationToken"`
}

type PhoneHintResponse struct {
	MaskedPhone string `json:"maskedPhone"`
}
