package dispatcher

import (
	"sync"

	bterr "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/Knoblauchpilze/chat-client/pkg/errors"
)

type Task func()

// Queue serializes tasks produced from any goroutine onto a single
// consumer. Tasks are executed in the order they were enqueued and
// never overlap.
type Queue interface {
	// Enqueue appends the task at the end of the queue. It is safe to
	// call it concurrently. Nil tasks are ignored.
	Enqueue(task Task)

	// Drain executes all the tasks queued at the moment of the call and
	// returns how many were executed. Tasks enqueued while draining are
	// kept for the next call.
	Drain() int

	Len() int
}

type queueImpl struct {
	log logger.Logger

	lock  sync.Mutex
	tasks []Task

	// Only one consumer is allowed to drain at a time.
	drainLock sync.Mutex
}

func NewQueue(log logger.Logger) Queue {
	return &queueImpl{
		log: log,
	}
}

func (q *queueImpl) Enqueue(task Task) {
	if task == nil {
		return
	}

	q.lock.Lock()
	defer q.lock.Unlock()
	q.tasks = append(q.tasks, task)
}

func (q *queueImpl) Drain() int {
	q.drainLock.Lock()
	defer q.drainLock.Unlock()

	pending := q.takeAll()

	for _, task := range pending {
		if err := errors.SafeRunSync(errors.Process(task)); err != nil {
			q.log.Warnf("Dispatched task failed: %v", bterr.WrapCode(err, ErrTaskPanicked))
		}
	}

	return len(pending)
}

func (q *queueImpl) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.tasks)
}

func (q *queueImpl) takeAll() []Task {
	q.lock.Lock()
	defer q.lock.Unlock()

	out := q.tasks
	q.tasks = nil

	return out
}
