package consumables

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"battle_chess_tft/internal/game"
)

// HandlerFactory constructs a new ConsumableHandler instance.
type HandlerFactory func() game.ConsumableHandler

type (
	ConsumableHandler = game.ConsumableHandler
	Context           = game.ConsumableContext
	Effect            = game.ConsumableEffect
)

// HandlerFuncs adapts plain functions to ConsumableHandler. A nil Validate
// accepts every purchase; a nil Apply has no effect.
type HandlerFuncs struct {
	ValidateFunc func(game.ConsumableContext) error
	ApplyFunc    func(game.ConsumableContext) (game.ConsumableEffect, error)
}

func (hf HandlerFuncs) Validate(ctx game.ConsumableContext) error {
	if hf.ValidateFunc == nil {
		return nil
	}
	return hf.ValidateFunc(ctx)
}

func (hf HandlerFuncs) Apply(ctx game.ConsumableContext) (game.ConsumableEffect, error) {
	if hf.ApplyFunc == nil {
		return game.ConsumableEffect{}, nil
	}
	return hf.ApplyFunc(ctx)
}

var (
	registryMu sync.RWMutex
	registry   map[string]HandlerFactory

	// ErrDuplicateRegistration indicates a kind already has a handler factory.
	ErrDuplicateRegistration = errors.New("consumables: handler already registered")
	// ErrNilFactory indicates a registration attempt provided a nil constructor.
	ErrNilFactory = errors.New("consumables: nil handler factory")
	// ErrInvalidKind indicates the kind is not a usable identifier.
	ErrInvalidKind = errors.New("consumables: invalid kind")
	// ErrUnknownKind indicates no handler factory has been registered for the kind.
	ErrUnknownKind = errors.New("consumables: handler not registered")
	// ErrNilHandler indicates a factory returned a nil handler instance.
	ErrNilHandler = errors.New("consumables: factory produced nil handler")
)

// Register associates kind with a handler factory. It is safe for concurrent
// use.
func Register(kind string, ctor HandlerFactory) error {
	if kind == "" || kind != strings.TrimSpace(kind) {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if ctor == nil {
		return ErrNilFactory
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if registry == nil {
		registry = make(map[string]HandlerFactory)
	}
	if _, exists := registry[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, kind)
	}
	registry[kind] = ctor
	return nil
}

// New creates a handler instance for kind using the registered factory.
func New(kind string) (game.ConsumableHandler, error) {
	registryMu.RLock()
	ctor := registry[kind]
	registryMu.RUnlock()

	if ctor == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	handler := ctor()
	if handler == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilHandler, kind)
	}
	return handler, nil
}

// Kinds returns a sorted copy of the registered kinds.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]string, 0, len(registry))
	for kind := range registry {
		out = append(out, kind)
	}
	slices.Sort(out)
	return out
}

func init() {
	game.RegisterConsumableFactory(Kinds, func(kind string) (game.ConsumableHandler, error) {
		handler, err := New(kind)
		if err != nil {
			if errors.Is(err, ErrUnknownKind) {
				return nil, game.ErrConsumableNotRegistered
			}
			return nil, err
		}
		return handler, nil
	})
}
