package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	ActorID   string
	GroceryID string
	Action    string
	Entity    string
	EntityID  string
	Metadata  any
}

// Sink 事件落地（Logger 实现；测试可替换）
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher 异步写审计，队列满直接丢弃，绝不影响接口
type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	queue chan Event
	once  sync.Once
	done  chan struct{}
}

func NewDispatcher(sink Sink, log *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, buffer),
		done:  make(chan struct{}),
	}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.log.Warn("audit write failed", zap.String("action", ev.Action), zap.String("entity_id", ev.EntityID), zap.Error(err))
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action), zap.String("entity_id", ev.EntityID))
	}
}

// Close 停止接收并等待队列写完；只能在不再 Dispatch 之后调用
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
