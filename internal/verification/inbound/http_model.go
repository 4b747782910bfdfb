package inbound

type RequestCodeResponse struct {
	BlockSeconds int64  `json:"blockSeconds"`
	Code         string `json:"code"`
}

func (RequestCodeResponse) Message() string {
	return "Verification code has been sent"
}

type VerifyCodeRequest struct {
	MobilePhone      string `json:"mobilePhone"`
	VerificationCode string `json:"verificationCode"`
}

type VerifyCodeResponse struct{}

func (VerifyCodeResponse) Message() string {
	return "Verification code is correct"
}

type SetBlockRequest struct {
	MobilePhone string `json:"mobilePhone"`
}

type SetBlockResponse struct{}

func (SetBlockResponse) Message() string {
	return "Receiver has been blocked"
}

type FindReceiverRequest struct {
	PassportNumber string `json:"passportNumber"`
}

type FindReceiverResponse struct {
	MobilePhone string `json:"mobilePhone"`
}
