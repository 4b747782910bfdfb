package inbound

import (
	"context"

	"github.com/takonote/verigate/internal/pkg/router"
	"github.com/takonote/verigate/internal/verification/usecase"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) error
	SetBlock(ctx context.Context, in usecase.SetBlockInput) error
	FindReceiver(ctx context.Context, in usecase.FindReceiverInput) (*usecase.FindReceiverOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, adminAPIKey string) {
	end := &HTTPEndpoint{uc: uc}

	// Verification session
	r.PATCH("/security/session", end.RequestCode)
	r.POST("/security/session/verification", end.VerifyCode)
	r.POST("/security/session", end.FindReceiver)

	// Operator action
	r.PATCH("/security/session/verification", end.SetBlock, router.MiddlewareAPIKey(adminAPIKey))
}
