package inbound

import (
	"github.com/takonote/verigate/internal/pkg/router"
	"github.com/takonote/verigate/internal/verification/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the verification session workflow.
type HTTPEndpoint struct {
	uc uc
}

// RequestCode issues a verification code for the receiver and sends it by SMS.
// @Summary Request verification code
// @Description Issues a fresh code for the receiver, throttled per receiver with a growing resend window.
// @Tags Verification
// @Produce json
// @Param receiver query string true "Receiver mobile phone (10-15 digits)"
// @Success 200 {object} router.successResponse{data=RequestCodeResponse} "Issued code and resend window"
// @Failure 406 {object} router.errorResponse "Receiver is temporarily blocked"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /security/session [patch]
func (h *HTTPEndpoint) RequestCode(r *router.Request) (any, error) {
	resp, err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		Receiver: r.GetQuery("receiver"),
	})
	if err != nil {
		return nil, err
	}

	return RequestCodeResponse{
		BlockSeconds: resp.RemainingBlockSeconds,
		Code:         resp.Code,
	}, nil
}

// VerifyCode checks a submitted code against the receiver's pending challenge.
// @Summary Verify code
// @Description Consumes the pending challenge when the code matches and is not expired.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyCodeResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid or expired code"
// @Failure 406 {object} router.errorResponse "Receiver is temporarily blocked"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /security/session/verification [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Receiver: req.MobilePhone,
		Code:     req.VerificationCode,
	}); err != nil {
		return nil, err
	}

	return VerifyCodeResponse{}, nil
}

// SetBlock locks the receiver out of verification for the block duration.
// @Summary Block receiver
// @Description Operator action placing a temporary verification block on the receiver.
// @Tags Verification
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body SetBlockRequest true "Block payload"
// @Success 200 {object} router.successResponse{data=SetBlockResponse} "Block result"
// @Failure 400 {object} router.errorResponse "No pending challenge for this receiver"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /security/session/verification [patch]
func (h *HTTPEndpoint) SetBlock(r *router.Request) (any, error) {
	var req SetBlockRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.SetBlock(r.Context(), usecase.SetBlockInput{
		Receiver: req.MobilePhone,
	}); err != nil {
		return nil, err
	}

	return SetBlockResponse{}, nil
}

// FindReceiver resolves a client's mobile phone from a passport number.
// @Summary Find receiver
// @Description Returns the mobile phone registered for the given passport number.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body FindReceiverRequest true "Lookup payload"
// @Success 200 {object} router.successResponse{data=FindReceiverResponse} "Receiver phone"
// @Failure 400 {object} router.errorResponse "Client not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /security/session [post]
func (h *HTTPEndpoint) FindReceiver(r *router.Request) (any, error) {
	var req FindReceiverRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.FindReceiver(r.Context(), usecase.FindReceiverInput{
		PassportNumber: req.PassportNumber,
	})
	if err != nil {
		return nil, err
	}

	return FindReceiverResponse{MobilePhone: resp.MobilePhone}, nil
}
