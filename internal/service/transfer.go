package service

import (
	"context"

	"github.com/iliyamo/restaurant-pos/internal/model"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// Transfer rebinds the active order of sourceID to targetID.  It is a no-op
// (applied == false) unless both tables exist, they differ, the target is
// available and the source has exactly one active order.  The rebind, the
// release of the source and the claim of the target happen in one store
// transaction.
func (s *OrderService) Transfer(ctx context.Context, sourceID, targetID string) (bool, error) {
	if sourceID == targetID {
		return false, nil
	}
	var (
		applied bool
		ev      q.LifecycleEvent
	)
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		src, ok := tx.Table(sourceID)
		if !ok {
			return nil
		}
		dst, ok := tx.Table(targetID)
		if !ok || dst.Status != model.TableAvailable {
			return nil
		}
		if n := len(tx.ActiveOrdersForTable(dst.ID)); n != 0 {
			return inconsistent(dst, n)
		}
		active := tx.ActiveOrdersForTable(src.ID)
		switch {
		case len(active) == 0 && src.Status == model.TableAvailable:
			return nil
		case len(active) != 1 || src.Status != model.TableOccupied:
			return inconsistent(src, len(active))
		}

		o := active[0]
		o.TableID = dst.ID
		o.UpdatedAt = s.d.now()
		tx.PutOrder(o)

		dst.Status = model.TableOccupied
		dst.CustomerName = src.CustomerName
		tx.PutTable(dst)

		src.Status = model.TableAvailable
		src.CustomerName = ""
		tx.PutTable(src)

		applied = true
		ev = q.LifecycleEvent{
			Type: q.EventTableTransferred, EntityID: src.ID, TableID: dst.ID, TableName: dst.Name,
			OrderID: o.ID, Status: string(o.Status), Customer: o.CustomerName,
		}
		return nil
	})
	if err == nil && applied {
		s.d.emit(ctx, ev)
	}
	return applied, err
}

// DragPhase is the presentational state of a drag-to-transfer interaction.
type DragPhase int

const (
	DragNone DragPhase = iota
	Dragging
	DragValidTarget
	DragInvalidTarget
)

func (p DragPhase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case DragValidTarget:
		return "valid-target"
	case DragInvalidTarget:
		return "invalid-target"
	}
	return "none"
}

// DragState tracks one drag interaction on the floor plan.  It never mutates
// the store itself; Drop delegates to OrderService.Transfer.  Drop and Cancel
// always return the state to DragNone.
type DragState struct {
	Phase  DragPhase
	Source string
	Target string
}

// Begin starts dragging the order on source.
func (d *DragState) Begin(source string) {
	*d = DragState{Phase: Dragging, Source: source}
}

// Hover marks target as a valid or invalid drop zone.  Ignored when no drag
// is in progress.
func (d *DragState) Hover(target model.Table) {
	if d.Phase == DragNone {
		return
	}
	d.Target = target.ID
	if target.ID != d.Source && target.Status == model.TableAvailable {
		d.Phase = DragValidTarget
	} else {
		d.Phase = DragInvalidTarget
	}
}

// Leave clears the hovered target while the drag continues.
func (d *DragState) Leave() {
	if d.Phase == DragNone {
		return
	}
	d.Phase, d.Target = Dragging, ""
}

// Drop ends the drag on targetID and attempts the transfer.
func (d *DragState) Drop(ctx context.Context, orders *OrderService, targetID string) (bool, error) {
	source, active := d.Source, d.Phase != DragNone
	d.Cancel()
	if !active {
		return false, nil
	}
	return orders.Transfer(ctx, source, targetID)
}

// Cancel abandons the drag.
func (d *DragState) Cancel() {
	*d = DragState{}
}
