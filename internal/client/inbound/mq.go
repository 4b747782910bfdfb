package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/takonote/verigate/internal/client/usecase"
	"github.com/takonote/verigate/internal/pkg/config"
	"github.com/takonote/verigate/internal/pkg/goroutine"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/messaging"
	"github.com/takonote/verigate/internal/pkg/uid"
	"github.com/takonote/verigate/internal/shared/event"
)

type uc interface {
	UpdateEmployer(ctx context.Context, in usecase.UpdateEmployerInput) error
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.Generator,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.client.consumer_names")

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		group   string // kafka consumer group
		handler messaging.Handler
	}{
		{
			name:    event.EmployerUpdateDestinationConsumerClient,
			topic:   event.EmployerUpdateDestination,
			group:   event.EmployerUpdateDestinationConsumerClient,
			handler: mqHandler.EmployerUpdate,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithGroup(consumer.group),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
				)
			})
		}
	}
}
