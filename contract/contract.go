//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"bootbot/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Handler is one feature of the bot. Matches decides on the command word
// alone; Handle produces the single reply line. A Handler error becomes
// exactly one user-visible error line, never a crash.
type Handler interface {
	Matches(command string) bool
	Handle(ctx context.Context, req domain.Request) (string, error)
}

// Provider is an external data collaborator (weather, price, page titles).
// The bot depends only on this shape, not on any provider's transport.
type Provider interface {
	Fetch(ctx context.Context, query string) (string, error)
}

// Sender accepts outbound chat lines. Implemented by the throttle; handed
// to everything that talks back into the channel.
type Sender interface {
	Send(target, text string)
}

type ISeenRepository interface {
	Record(identity domain.Identity, rec domain.SeenRecord) error
	Get(identity domain.Identity) (domain.SeenRecord, bool, error)
}

type INotificationRepository interface {
	Enqueue(n domain.Notification) error
	DrainDue(identity domain.Identity, limit int) ([]domain.Notification, error)
	Pending(identity domain.Identity) (int, error)
}

// Clock is injected where tests need deterministic time.
type Clock func() time.Time
