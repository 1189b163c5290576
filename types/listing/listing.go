package listing

type ClaimRequest struct {
	VerificationToken string `json:"verificationToken"`
}
