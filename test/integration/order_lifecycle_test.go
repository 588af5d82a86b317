package integration

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/storefront/internal/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/order"
	"github.com/vladislavdragonenkov/storefront/internal/store"
)

// OrderLifecycleTestSuite проверяет полный путь: каталог → магазин → заказы.
type OrderLifecycleTestSuite struct {
	suite.Suite
	store     *store.Store
	processor *order.Processor
}

func (s *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	demo, err := catalog.DemoStore()
	s.Require().NoError(err)

	s.store = demo
	s.processor = order.NewProcessorWithoutMetrics(demo, logger)
}

func (s *OrderLifecycleTestSuite) TestOrderReducesStockAndAppliesPromotions() {
	s.Require().Equal(1100, s.store.TotalQuantity())

	receipt, err := s.processor.ProcessOrder([]order.LineRequest{
		{Name: "MacBook Air M2", Qty: 2},             // второй за полцены: 2175
		{Name: "Bose QuietComfort Earbuds", Qty: 3},  // третий бесплатно: 500
		{Name: "Windows License", Qty: 2},            // 30% скидка: 175
		{Name: "Shipping", Qty: 1},                   // 10
	})
	s.Require().NoError(err)
	s.Require().InDelta(2860, receipt.Total, 1e-9)
	s.Require().Len(receipt.Lines, 4)
	s.Require().NotEmpty(receipt.ID)

	// Складские позиции списаны, лицензия без учёта остатка.
	s.Require().Equal(1094, s.store.TotalQuantity())

	macbook, err := s.store.Find("MacBook Air M2")
	s.Require().NoError(err)
	s.Require().Equal(98, macbook.Quantity)
}

func (s *OrderLifecycleTestSuite) TestRejectedOrderLeavesStoreUntouched() {
	before := s.store.TotalQuantity()

	_, err := s.processor.ProcessOrder([]order.LineRequest{
		{Name: "Google Pixel 7", Qty: 10},
		{Name: "Shipping", Qty: 5}, // лимит 1 на заказ
	})

	var rejection *order.RejectionError
	s.Require().ErrorAs(err, &rejection)
	s.Require().Len(rejection.Failures, 1)
	s.Require().ErrorIs(rejection.Failures[0].Err, domain.ErrOverLimit)

	s.Require().Equal(before, s.store.TotalQuantity())
}

func (s *OrderLifecycleTestSuite) TestSellOutDeactivatesProduct() {
	pixel, err := s.store.Find("Google Pixel 7")
	s.Require().NoError(err)

	_, err = s.processor.ProcessOrder([]order.LineRequest{
		{Name: "Google Pixel 7", Qty: pixel.Quantity},
	})
	s.Require().NoError(err)

	s.Require().False(pixel.IsActive())

	// Следующий заказ на распроданный товар отклоняется как неактивный.
	_, err = s.processor.ProcessOrder([]order.LineRequest{
		{Name: "Google Pixel 7", Qty: 1},
	})
	var rejection *order.RejectionError
	s.Require().ErrorAs(err, &rejection)
	s.Require().ErrorIs(rejection.Failures[0].Err, domain.ErrProductInactive)
}

func (s *OrderLifecycleTestSuite) TestCombinedStoresServeOneOrder() {
	second, err := store.New()
	s.Require().NoError(err)

	keyboard, err := domain.NewProduct("Keyboard", 40, 30)
	s.Require().NoError(err)
	s.Require().NoError(second.AddProduct(keyboard))

	combined := s.store.Combine(second)
	s.Require().Equal(s.store.TotalQuantity()+30, combined.TotalQuantity())

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)
	processor := order.NewProcessorWithoutMetrics(combined, baseLogger.WithField("component", "integration-test"))

	receipt, err := processor.ProcessOrder([]order.LineRequest{
		{Name: "Keyboard", Qty: 2},
		{Name: "Shipping", Qty: 1},
	})
	s.Require().NoError(err)
	s.Require().InDelta(90, receipt.Total, 1e-9)
}

func TestOrderLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}

// Отдельная проверка вне suite: валидация и исполнение согласованы даже
// при дублирующихся строках одного товара.
func TestDuplicateLinesStayConsistent(t *testing.T) {
	demo, err := catalog.DemoStore()
	require.NoError(t, err)

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)
	processor := order.NewProcessorWithoutMetrics(demo, baseLogger.WithField("component", "integration-test"))

	receipt, err := processor.ProcessOrder([]order.LineRequest{
		{Name: "Google Pixel 7", Qty: 100},
		{Name: "Google Pixel 7", Qty: 150},
	})
	require.NoError(t, err)
	require.InDelta(t, 125000, receipt.Total, 1e-9)

	pixel, err := demo.Find("Google Pixel 7")
	require.NoError(t, err)
	require.Equal(t, 0, pixel.Quantity)
	require.False(t, pixel.IsActive())
}
