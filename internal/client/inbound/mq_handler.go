package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/takonote/verigate/internal/client/usecase"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/messaging"
	"github.com/takonote/verigate/internal/pkg/uid"
	"github.com/takonote/verigate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.Generator
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) EmployerUpdate(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("client.inbound.mq").Start(ctx, "EmployerUpdate")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: employer update", "msg_body", string(body))

	var payload event.EmployerUpdateMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of employer update", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.UpdateEmployer(ctx, usecase.UpdateEmployerInput{
		ClientID:                     payload.ClientID,
		EmployerIdentificationNumber: payload.EmployerIdentificationNumber,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume employer update", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
