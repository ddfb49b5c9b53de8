package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/metrics"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"

	"github.com/google/uuid"
)

// DispatchOutcome tells what Dispatch did with a command.
type DispatchOutcome string

const (
	OutcomeSent      DispatchOutcome = "sent"
	OutcomeDebounced DispatchOutcome = "debounced"
	OutcomeFailed    DispatchOutcome = "failed"
	OutcomeRejected  DispatchOutcome = "rejected"
)

var ErrInvalidCommand = errors.New("invalid actuator command: must be on or off")

// Dispatcher sends a command only when it differs from the last acknowledged one.
// It is the single owner of the ActuatorState it is given.
type Dispatcher struct {
	sender    CommandSender
	eventRepo repository.EventRepo
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu    sync.RWMutex
	state *models.ActuatorState
}

// NewDispatcher takes ownership of state. eventRepo may be nil.
func NewDispatcher(sender CommandSender, state *models.ActuatorState, eventRepo repository.EventRepo, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	if state == nil {
		state = &models.ActuatorState{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		sender:    sender,
		eventRepo: eventRepo,
		log:       log,
		metrics:   m,
		now:       time.Now,
		state:     state,
	}
}

// State returns a copy of the actuator state.
func (d *Dispatcher) State() models.ActuatorState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return *d.state
}

// Dispatch makes at most one outbound call. The state changes only on a 2xx;
// after a failure the next Dispatch with the same command sends again.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd models.Command) (DispatchOutcome, error) {
	if !cmd.Valid() {
		err := fmt.Errorf("%w: got %q", ErrInvalidCommand, string(cmd))
		d.log.Errorw("actuator_command_rejected", "command", string(cmd), "err", err)
		d.metrics.CommandResult(string(cmd), metrics.ResultRejected)
		d.appendEvent(ctx, models.EventCommandRejected, cmd, "Command rejected before sending", map[string]any{"error": err.Error()})
		return OutcomeRejected, err
	}

	last := d.State().LastCommandSent
	if cmd == last {
		d.log.Debugw("actuator_command_debounced", "command", cmd.String())
		d.metrics.CommandResult(string(cmd), metrics.ResultDebounced)
		return OutcomeDebounced, nil
	}

	if err := d.sender.SendCommand(ctx, cmd); err != nil {
		d.log.Errorw("actuator_command_failed", "command", cmd.String(), "last_sent", last.String(), "err", err)
		d.metrics.CommandResult(string(cmd), metrics.ResultFailed)
		d.appendEvent(ctx, models.EventCommandFailed, cmd, "Command delivery failed; will retry next tick", map[string]any{
			"error":     err.Error(),
			"last_sent": last.String(),
		})
		return OutcomeFailed, fmt.Errorf("dispatch %q: %w", cmd, err)
	}

	now := d.now().UTC()
	d.mu.Lock()
	d.state.LastCommandSent = cmd
	d.state.AcknowledgedAt = now
	d.mu.Unlock()

	d.log.Infow("actuator_command_sent", "command", cmd.String(), "previous", last.String())
	d.metrics.CommandResult(string(cmd), metrics.ResultSent)
	d.metrics.SetLEDOn(cmd == models.CommandOn)
	d.appendEvent(ctx, models.EventCommandSent, cmd, "LED switched "+string(cmd), map[string]any{"previous": last.String()})
	return OutcomeSent, nil
}

// appendEvent records an audit entry; failures are logged and never affect dispatch.
func (d *Dispatcher) appendEvent(ctx context.Context, typ string, cmd models.Command, desc string, meta map[string]any) {
	if d.eventRepo == nil {
		return
	}
	err := d.eventRepo.Append(ctx, models.ActuatorEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  d.now().UTC(),
		Type:        typ,
		Command:     string(cmd),
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		d.log.Warnw("actuator_event_append_failed", "type", typ, "err", err)
	}
}
