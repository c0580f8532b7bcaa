package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository/memory"
	"github.com/vietanh2810/fulfillment/internal/inventory/service"
)

type recordedEvent struct {
	Topic     string
	EventType string
	OrderID   string
	Payload   any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(_ context.Context, topic, eventType, orderID string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, recordedEvent{
		Topic:     topic,
		EventType: eventType,
		OrderID:   orderID,
		Payload:   payload,
	})
}

func (p *fakePublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	topics := make([]string, len(p.events))
	for i, e := range p.events {
		topics[i] = e.Topic
	}

	return topics
}

type failingJournal struct {
	service.ReservationRepository
	failOnProduct string
}

func (j *failingJournal) Create(ctx context.Context, orderID, productID string, quantity int) (domain.Reservation, error) {
	if productID == j.failOnProduct {
		return domain.Reservation{}, errors.New("journal write failed")
	}

	return j.ReservationRepository.Create(ctx, orderID, productID, quantity)
}

type failingLedger struct {
	service.StockRepository
	failRestore bool
}

func (l *failingLedger) Restore(ctx context.Context, productID string, quantity int) error {
	if l.failRestore {
		return errors.New("restore did not land")
	}

	return l.StockRepository.Restore(ctx, productID, quantity)
}

func newFixture() (*service.ReservationService, *memory.StockRepository, *memory.ReservationRepository, *fakePublisher) {
	ledger := memory.NewStockRepository()
	journal := memory.NewReservationRepository()
	publisher := &fakePublisher{}

	return service.NewReservationService(ledger, journal, publisher), ledger, journal, publisher
}

func TestReservationService_ReserveOne(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip with release", func(t *testing.T) {
		svc, ledger, _, _ := newFixture()
		_, err := ledger.Upsert(ctx, "sku-1", 10)
		require.NoError(t, err)

		entry, err := svc.ReserveOne(ctx, "order-1", "sku-1", 4)
		require.NoError(t, err)
		assert.Equal(t, "order-1", entry.OrderID)
		assert.Equal(t, 4, entry.Quantity)

		stock, err := ledger.FindByProductID(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 10, stock.Quantity)
		assert.Equal(t, 4, stock.Reserved)
		assert.Equal(t, 6, stock.Available())

		released, err := svc.ReleaseOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, 1, released)

		stock, err = ledger.FindByProductID(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 10, stock.Quantity)
		assert.Equal(t, 0, stock.Reserved)
		assert.Equal(t, 10, stock.Available())
	})

	t.Run("unknown product leaves no journal entry", func(t *testing.T) {
		svc, _, journal, _ := newFixture()

		_, err := svc.ReserveOne(ctx, "order-1", "missing", 1)
		require.ErrorIs(t, err, service.ErrProductNotFound)

		var reserveErr *service.ReserveError
		require.ErrorAs(t, err, &reserveErr)
		assert.Equal(t, "missing", reserveErr.ProductID)

		entries, err := journal.FindByOrderID(ctx, "order-1")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("journal failure restores the grant", func(t *testing.T) {
		ledger := memory.NewStockRepository()
		journal := &failingJournal{
			ReservationRepository: memory.NewReservationRepository(),
			failOnProduct:         "sku-1",
		}
		svc := service.NewReservationService(ledger, journal, nil)

		_, err := ledger.Upsert(ctx, "sku-1", 10)
		require.NoError(t, err)

		_, err = svc.ReserveOne(ctx, "order-1", "sku-1", 4)
		require.Error(t, err)

		stock, err := ledger.FindByProductID(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 0, stock.Reserved)
	})
}

func TestReservationService_ReserveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves every item", func(t *testing.T) {
		svc, ledger, journal, publisher := newFixture()
		_, err := ledger.Upsert(ctx, "sku-1", 5)
		require.NoError(t, err)
		_, err = ledger.Upsert(ctx, "sku-2", 5)
		require.NoError(t, err)

		err = svc.ReserveAll(ctx, "order-9", []domain.ReservationItem{
			{ProductID: "sku-2", Quantity: 1},
			{ProductID: "sku-1", Quantity: 3},
		})
		require.NoError(t, err)

		entries, err := journal.FindByOrderID(ctx, "order-9")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		// Items are processed in ascending product id order.
		assert.Equal(t, "sku-1", entries[0].ProductID)
		assert.Equal(t, "sku-2", entries[1].ProductID)

		assert.Equal(t, []string{"stock.reserved"}, publisher.topics())
	})

	t.Run("unknown item rolls back every grant", func(t *testing.T) {
		svc, ledger, journal, _ := newFixture()
		_, err := ledger.Upsert(ctx, "sku-1", 5)
		require.NoError(t, err)

		err = svc.ReserveAll(ctx, "order-9", []domain.ReservationItem{
			{ProductID: "sku-1", Quantity: 3},
			{ProductID: "sku-2", Quantity: 1},
		})
		require.ErrorIs(t, err, service.ErrProductNotFound)

		var reserveErr *service.ReserveError
		require.ErrorAs(t, err, &reserveErr)
		assert.Equal(t, "sku-2", reserveErr.ProductID)

		stock, err := ledger.FindByProductID(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 0, stock.Reserved)

		entries, err := journal.FindByOrderID(ctx, "order-9")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("insufficient item rolls back and keeps earlier orders intact", func(t *testing.T) {
		svc, ledger, journal, _ := newFixture()
		_, err := ledger.Upsert(ctx, "sku-1", 10)
		require.NoError(t, err)
		_, err = ledger.Upsert(ctx, "sku-2", 1)
		require.NoError(t, err)

		// A previous order already holds sku-1 stock. Its journal entries
		// must survive a later order's rollback.
		_, err = svc.ReserveOne(ctx, "order-1", "sku-1", 2)
		require.NoError(t, err)

		err = svc.ReserveAll(ctx, "order-2", []domain.ReservationItem{
			{ProductID: "sku-1", Quantity: 3},
			{ProductID: "sku-2", Quantity: 5},
		})
		require.ErrorIs(t, err, service.ErrInsufficientStock)

		stock, err := ledger.FindByProductID(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 2, stock.Reserved)

		entries, err := journal.FindByOrderID(ctx, "order-1")
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		entries, err = journal.FindByOrderID(ctx, "order-2")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("compensation failure is escalated, not swallowed", func(t *testing.T) {
		ledger := &failingLedger{
			StockRepository: memory.NewStockRepository(),
			failRestore:     true,
		}
		journal := memory.NewReservationRepository()
		publisher := &fakePublisher{}
		svc := service.NewReservationService(ledger, journal, publisher)

		_, err := ledger.Upsert(ctx, "sku-1", 5)
		require.NoError(t, err)

		err = svc.ReserveAll(ctx, "order-9", []domain.ReservationItem{
			{ProductID: "sku-1", Quantity: 3},
			{ProductID: "sku-2", Quantity: 1},
		})
		// The caller still sees the business failure that triggered rollback.
		require.ErrorIs(t, err, service.ErrProductNotFound)

		assert.Contains(t, publisher.topics(), "stock.compensation_failed")
	})
}

func TestReservationService_ReleaseOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		svc, ledger, _, _ := newFixture()
		_, err := ledger.Upsert(ctx, "sku-1", 10)
		require.NoError(t, err)
		_, err = svc.ReserveOne(ctx, "order-1", "sku-1", 4)
		require.NoError(t, err)

		released, err := svc.ReleaseOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, 1, released)

		released, err = svc.ReleaseOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, 0, released)

		stock, err := ledger.FindByProductID(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 0, stock.Reserved)
	})

	t.Run("order with no reservations", func(t *testing.T) {
		svc, _, _, publisher := newFixture()

		released, err := svc.ReleaseOrder(ctx, "never-reserved")
		require.NoError(t, err)
		assert.Equal(t, 0, released)
		assert.Empty(t, publisher.topics())
	})

	t.Run("restores every product of the order", func(t *testing.T) {
		svc, ledger, _, publisher := newFixture()
		_, err := ledger.Upsert(ctx, "sku-1", 10)
		require.NoError(t, err)
		_, err = ledger.Upsert(ctx, "sku-2", 10)
		require.NoError(t, err)

		err = svc.ReserveAll(ctx, "order-1", []domain.ReservationItem{
			{ProductID: "sku-1", Quantity: 2},
			{ProductID: "sku-2", Quantity: 7},
		})
		require.NoError(t, err)

		released, err := svc.ReleaseOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, 2, released)

		for _, id := range []string{"sku-1", "sku-2"} {
			stock, err := ledger.FindByProductID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, 0, stock.Reserved, id)
		}

		assert.Equal(t, []string{"stock.reserved", "stock.released"}, publisher.topics())
	})
}
