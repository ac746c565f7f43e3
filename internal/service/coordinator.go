package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"booth_dashboard/internal/device"
	"booth_dashboard/internal/logger"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/repository"
)

const DefaultSettleDelay = 500 * time.Millisecond

// WriteCoordinator runs each write command on its own transient device
// session, independent of any subscription.
type WriteCoordinator struct {
	dialer  device.Dialer
	address string
	settle  time.Duration
	events  repository.CommandLog
	log     *logger.Logger
}

func NewWriteCoordinator(d device.Dialer, address string, settle time.Duration, events repository.CommandLog, log *logger.Logger) *WriteCoordinator {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WriteCoordinator{dialer: d, address: address, settle: settle, events: events, log: log}
}

type writeOutcome struct {
	ack models.Ack
	err error
}

// Submit validates cmd and executes it. The command runs detached from ctx:
// once the first write has been issued, a momentary command always attempts
// its clear-write. Submit returns only after the command has finished.
func (c *WriteCoordinator) Submit(ctx context.Context, cmd models.WriteCommand) (models.Ack, error) {
	if err := validate(cmd); err != nil {
		return models.Ack{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Ack{}, err
	}

	done := make(chan writeOutcome, 1)
	go func() {
		ack, err := c.execute(context.WithoutCancel(ctx), cmd)
		done <- writeOutcome{ack: ack, err: err}
	}()
	out := <-done
	return out.ack, out.err
}

func validate(cmd models.WriteCommand) error {
	if strings.TrimSpace(cmd.PointID) == "" || cmd.Value == nil {
		return fmt.Errorf("%w: missing tag or value", ErrInvalidCommand)
	}
	if math.IsNaN(*cmd.Value) || math.IsInf(*cmd.Value, 0) {
		return fmt.Errorf("%w: value is not a finite number", ErrInvalidCommand)
	}
	return nil
}

func (c *WriteCoordinator) execute(ctx context.Context, cmd models.WriteCommand) (models.Ack, error) {
	value := *cmd.Value
	ack := models.Ack{PointID: cmd.PointID, Value: value}

	sess, err := device.Open(ctx, c.dialer, c.address)
	if err != nil {
		c.record(ctx, models.EventFault, cmd, err)
		return models.Ack{}, err
	}
	defer func() { _ = sess.Close() }()

	if err := sess.Write(ctx, cmd.PointID, value); err != nil {
		typ := models.EventFault
		if errors.Is(err, device.ErrRejected) {
			typ = models.EventRejected
		}
		c.record(ctx, typ, cmd, err)
		return models.Ack{}, err
	}
	if !cmd.Momentary {
		c.record(ctx, models.EventWrite, cmd, nil)
		return ack, nil
	}

	// The pulse has begun; nothing may stop the clear-write now.
	time.Sleep(c.settle)

	if err := c.clear(ctx, &sess, cmd.PointID); err != nil {
		c.record(ctx, models.EventClearFailed, cmd, err)
		return models.Ack{}, &ClearWriteError{PointID: cmd.PointID, Err: err}
	}
	c.record(ctx, models.EventPulse, cmd, nil)
	return ack, nil
}

// clear writes 0 to pointID. A transport fault gets one retry on a fresh
// session, which replaces *sess; a rejection is final.
func (c *WriteCoordinator) clear(ctx context.Context, sess **device.Session, pointID string) error {
	err := (*sess).Write(ctx, pointID, 0)
	if err == nil || !errors.Is(err, device.ErrTransportFault) {
		return err
	}
	c.log.Warnw("clear_write_retry", "tag", pointID, "error", err)

	_ = (*sess).Close()
	fresh, openErr := device.Open(ctx, c.dialer, c.address)
	if openErr != nil {
		return openErr
	}
	*sess = fresh
	return fresh.Write(ctx, pointID, 0)
}

// record appends to the audit log. Failures are logged and never change
// the command's result.
func (c *WriteCoordinator) record(ctx context.Context, typ string, cmd models.WriteCommand, cause error) {
	desc := fmt.Sprintf("%s %s=%v", strings.ToLower(typ), cmd.PointID, *cmd.Value)
	meta := map[string]any{"momentary": cmd.Momentary}
	if cause != nil {
		meta["error"] = cause.Error()
		c.log.Warnw("write_failed", "tag", cmd.PointID, "type", typ, "error", cause)
	} else {
		c.log.Infow("write_completed", "tag", cmd.PointID, "value", *cmd.Value, "momentary", cmd.Momentary)
	}
	if c.events == nil {
		return
	}
	err := c.events.Append(ctx, models.CommandEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		PointID:     cmd.PointID,
		Value:       *cmd.Value,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		c.log.Errorw("command_log_append_failed", "tag", cmd.PointID, "error", err)
	}
}
