package composables

import (
	"context"
	"errors"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/constants"
)

var ErrNoActor = errors.New("no actor found in context")

func WithActor(ctx context.Context, actor workflow.Actor) context.Context {
	return context.WithValue(ctx, constants.ActorKey, actor)
}

func UseActor(ctx context.Context) (workflow.Actor, error) {
	actor, ok := ctx.Value(constants.ActorKey).(workflow.Actor)
	if !ok {
		return workflow.Actor{}, ErrNoActor
	}
	return actor, nil
}
