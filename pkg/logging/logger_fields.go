package logging

import (
	"time"

	"github.com/dd0wney/entitygraph/pkg/entity"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Entity(e entity.Entity) Field {
	return String("entity", e.String())
}

func Neighbor(e entity.Entity) Field {
	return String("neighbor", e.String())
}

func ComponentID(e entity.Entity) Field {
	return String("connected_component", e.String())
}

func Tick(n uint64) Field {
	return Uint64("tick", n)
}

func Kind(kind string) Field {
	return String("kind", kind)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}
