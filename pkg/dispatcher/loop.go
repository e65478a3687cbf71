package dispatcher

import (
	"sync/atomic"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
)

// Loop drains a queue once per tick. It stands for the frame loop of
// the host application when there is none.
type Loop interface {
	Start()
	// Stop interrupts the loop and waits for it to finish. Tasks still
	// queued are executed before returning.
	Stop()
}

const defaultTickInterval = 16 * time.Millisecond

type loopImpl struct {
	queue        Queue
	tickInterval time.Duration

	log logger.Logger

	running atomic.Bool
	quit    chan struct{}
	done    chan struct{}
}

func NewLoop(queue Queue, tickInterval time.Duration, log logger.Logger) Loop {
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}

	return &loopImpl{
		queue:        queue,
		tickInterval: tickInterval,
		log:          log,
		quit:         make(chan struct{}, 1),
		done:         make(chan struct{}, 1),
	}
}

func (l *loopImpl) Start() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}

	go l.activeLoop()
}

func (l *loopImpl) Stop() {
	if !l.running.CompareAndSwap(true, false) {
		return
	}

	l.quit <- struct{}{}
	<-l.done
}

func (l *loopImpl) activeLoop() {
	ticker := time.NewTicker(l.tickInterval)

	defer func() {
		ticker.Stop()
		l.done <- struct{}{}
	}()

	running := true
	for running {
		select {
		case <-l.quit:
			running = false
		case <-ticker.C:
		}

		if count := l.queue.Drain(); count > 0 {
			l.log.Debugf("Dispatched %d task(s)", count)
		}
	}
}
