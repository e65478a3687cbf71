package dispatcher

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/stretchr/testify/assert"
)

const reasonableTickInterval = 5 * time.Millisecond
const reasonableWaitTimeForTasksToRun = 200 * time.Millisecond

func newTestQueue() Queue {
	return NewQueue(logger.New(os.Stdout))
}

type recorder struct {
	lock   sync.Mutex
	values []int
}

func (r *recorder) record(value int) Task {
	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.values = append(r.values, value)
	}
}

func (r *recorder) snapshot() []int {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]int, len(r.values))
	copy(out, r.values)
	return out
}

func assertEventuallyRecorded(t *testing.T, r *recorder, expected []int) {
	condition := func() bool {
		return len(r.snapshot()) == len(expected)
	}
	assert.Eventually(t, condition, reasonableWaitTimeForTasksToRun, reasonableTickInterval)
	assert.Equal(t, expected, r.snapshot())
}
