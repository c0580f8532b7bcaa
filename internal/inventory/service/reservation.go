package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vietanh2810/fulfillment/internal/events"
	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
	"github.com/vietanh2810/fulfillment/internal/metrics"
)

type ReservationRepository interface {
	Create(ctx context.Context, orderID, productID string, quantity int) (domain.Reservation, error)
	FindByOrderID(ctx context.Context, orderID string) ([]domain.Reservation, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByOrderID(ctx context.Context, orderID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, eventType, orderID string, payload any)
}

// ReserveError names the item a reservation failed on and wraps the reason,
// so handlers can report both.
type ReserveError struct {
	ProductID string
	Err       error
}

func (e *ReserveError) Error() string {
	return fmt.Sprintf("reserve %s: %v", e.ProductID, e.Err)
}

func (e *ReserveError) Unwrap() error {
	return e.Err
}

// ReservationService coordinates the stock ledger and the reservation
// journal. A journal entry is written only after the ledger granted the
// reservation, and rollback compensates both together.
type ReservationService struct {
	ledger    StockRepository
	journal   ReservationRepository
	publisher EventPublisher
}

func NewReservationService(ledger StockRepository, journal ReservationRepository, publisher EventPublisher) *ReservationService {
	return &ReservationService{
		ledger:    ledger,
		journal:   journal,
		publisher: publisher,
	}
}

// ReserveOne grants a single-item reservation. On InsufficientStock or
// ProductNotFound nothing is mutated. If the journal write fails after the
// ledger grant, the grant is restored before returning.
func (s *ReservationService) ReserveOne(ctx context.Context, orderID, productID string, quantity int) (domain.Reservation, error) {
	if err := s.ledger.TryReserve(ctx, productID, quantity); err != nil {
		s.countRejection(err)

		return domain.Reservation{}, &ReserveError{ProductID: productID, Err: err}
	}

	entry, err := s.journal.Create(ctx, orderID, productID, quantity)
	if err != nil {
		if restoreErr := s.ledger.Restore(ctx, productID, quantity); restoreErr != nil {
			s.reportCompensationFailure(ctx, orderID, productID, restoreErr)
		}

		return domain.Reservation{}, &ReserveError{
			ProductID: productID,
			Err:       fmt.Errorf("s.journal.Create -> %w", err),
		}
	}

	metrics.ReservationsGranted.Inc()

	return entry, nil
}

// ReserveAll reserves every item or none. Items are processed in ascending
// product id order so two orders contending for the same products acquire
// locks in the same sequence. On the first failure every grant made by this
// call is restored and its journal entries removed; the returned error names
// the failed item.
func (s *ReservationService) ReserveAll(ctx context.Context, orderID string, items []domain.ReservationItem) error {
	sorted := make([]domain.ReservationItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID < sorted[j].ProductID
	})

	granted := make([]domain.Reservation, 0, len(sorted))
	for _, item := range sorted {
		entry, err := s.ReserveOne(ctx, orderID, item.ProductID, item.Quantity)
		if err != nil {
			s.compensate(ctx, orderID, granted)

			return err
		}

		granted = append(granted, entry)
	}

	reserved := make([]events.ReservedItem, len(granted))
	for i, g := range granted {
		reserved[i] = events.ReservedItem{ProductID: g.ProductID, Quantity: g.Quantity}
	}
	s.publish(ctx, events.TopicStockReserved, events.EventStockReserved, orderID,
		events.StockReservedPayload{OrderID: orderID, Items: reserved})

	return nil
}

// ReleaseOrder restores every journal entry for the order and clears the
// journal. Releasing an order twice, or one with no entries, restores
// nothing the second time. The journal is cleared only when every restore
// landed, so a failed release can be retried; the floor in Restore keeps the
// retry from over-restoring.
func (s *ReservationService) ReleaseOrder(ctx context.Context, orderID string) (int, error) {
	entries, err := s.journal.FindByOrderID(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("s.journal.FindByOrderID -> %w", err)
	}

	if len(entries) == 0 {
		return 0, nil
	}

	restored := 0
	for _, entry := range entries {
		if err := s.ledger.Restore(ctx, entry.ProductID, entry.Quantity); err != nil {
			s.reportCompensationFailure(ctx, orderID, entry.ProductID, err)

			return restored, fmt.Errorf("s.ledger.Restore %s -> %w", entry.ProductID, err)
		}
		restored++
	}

	if err := s.journal.DeleteByOrderID(ctx, orderID); err != nil {
		s.reportCompensationFailure(ctx, orderID, "", err)

		return restored, fmt.Errorf("s.journal.DeleteByOrderID -> %w", err)
	}

	metrics.OrdersReleased.Inc()
	s.publish(ctx, events.TopicStockReleased, events.EventStockReleased, orderID,
		events.StockReleasedPayload{OrderID: orderID, Released: restored})

	return restored, nil
}

// compensate rolls back the grants of a partially completed ReserveAll:
// restore each granted quantity, then remove exactly the entries this call
// wrote. A compensation that does not land means ledger and journal have
// diverged; that is escalated, never swallowed.
func (s *ReservationService) compensate(ctx context.Context, orderID string, granted []domain.Reservation) {
	entryIDs := make([]string, 0, len(granted))
	for _, g := range granted {
		if err := s.ledger.Restore(ctx, g.ProductID, g.Quantity); err != nil {
			s.reportCompensationFailure(ctx, orderID, g.ProductID, err)
			continue
		}
		entryIDs = append(entryIDs, g.ID)
	}

	if err := s.journal.DeleteByIDs(ctx, entryIDs); err != nil {
		s.reportCompensationFailure(ctx, orderID, "", err)
	}
}

func (s *ReservationService) reportCompensationFailure(ctx context.Context, orderID, productID string, err error) {
	zap.L().Error("reservation compensation failed, ledger and journal need manual reconciliation",
		zap.String("order_id", orderID),
		zap.String("product_id", productID),
		zap.Error(err),
	)
	metrics.CompensationFailures.Inc()
	s.publish(ctx, events.TopicCompensationFailed, events.EventCompensationFailed, orderID,
		events.CompensationFailedPayload{OrderID: orderID, ProductID: productID, Reason: err.Error()})
}

func (s *ReservationService) publish(ctx context.Context, topic, eventType, orderID string, payload any) {
	if s.publisher == nil {
		return
	}

	s.publisher.Publish(ctx, topic, eventType, orderID, payload)
}

func (s *ReservationService) countRejection(err error) {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		metrics.ReservationsRejected.WithLabelValues("insufficient_stock").Inc()
	case errors.Is(err, ErrProductNotFound):
		metrics.ReservationsRejected.WithLabelValues("unknown_product").Inc()
	default:
		metrics.ReservationsRejected.WithLabelValues("error").Inc()
	}
}
