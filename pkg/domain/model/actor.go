package model

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNoActor marks a request that reached a handler without an
// authenticated actor in its context
var ErrNoActor = goerr.New("no actor in context")

// Person identifies an individual acting on behalf of an event sponsor
type Person struct {
	ID        types.PersonID `json:"id" firestore:"ID"`
	FirstName string         `json:"first_name" firestore:"FirstName"`
	LastName  string         `json:"last_name" firestore:"LastName"`
}

// Actor is the authenticated caller of an operation: a person scoped to
// exactly one event. Every read and write is confined to that event.
type Actor struct {
	EventID types.EventID `json:"event_id"`
	Person  Person        `json:"person"`
}

type actorCtxKey struct{}

// ContextWithActor embeds the actor into the context
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext extracts the actor from the context
func ActorFromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorCtxKey{}).(Actor)
	if !ok {
		return Actor{}, goerr.Wrap(ErrNoActor, "request is not authenticated")
	}
	return actor, nil
}
