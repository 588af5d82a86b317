// Package order реализует обработку заказа: валидация всех строк,
// затем исполнение. Заказ либо проходит целиком, либо отклоняется целиком.
package order

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/store"
)

var (
	// ErrEmptyOrder — заказ без единой строки.
	ErrEmptyOrder = errors.New("order must contain at least one line")
	// ErrOrderInconsistent — покупка упала после успешной валидации.
	// Это нарушение инварианта процессора, а не ошибка пользователя.
	ErrOrderInconsistent = errors.New("order execution diverged from validation")
)

// LineRequest — одна строка заказа: имя товара и количество.
type LineRequest struct {
	Name string
	Qty  int
}

// LineReceipt — итог по одной строке исполненного заказа.
type LineReceipt struct {
	Name      string
	Qty       int
	Promotion string // пустая строка, если акции не было
	Total     float64
}

// Receipt — итог исполненного заказа.
type Receipt struct {
	ID        string
	Lines     []LineReceipt
	Total     float64
	CreatedAt time.Time
}

// LineFailure описывает, какая строка заказа не прошла валидацию и почему.
type LineFailure struct {
	Line int // номер строки заказа, с единицы
	Name string
	Qty  int
	Err  error
}

// RejectionError агрегирует все провалившиеся строки одного заказа,
// чтобы вызывающая сторона могла показать их разом.
type RejectionError struct {
	Failures []LineFailure
}

func (e *RejectionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "order rejected: %d line(s) failed validation", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; line %d (%s x%d): %v", f.Line, f.Name, f.Qty, f.Err)
	}
	return b.String()
}

// Processor проводит заказы против одного магазина.
// Валидация и исполнение выполняются под одним мьютексом: двухфазный
// протокол небезопасен при чередующихся мутациях одних и тех же товаров.
type Processor struct {
	mu      sync.Mutex
	store   *store.Store
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewProcessor создаёт рабочий процессор заказов.
func NewProcessor(s *store.Store, logger *log.Entry) *Processor {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	return &Processor{
		store:   s,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// NewProcessorWithoutMetrics создаёт процессор без метрик (для тестов).
func NewProcessorWithoutMetrics(s *store.Store, logger *log.Entry) *Processor {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	return &Processor{
		store:  s,
		logger: logger,
	}
}

// ProcessOrder проводит заказ из requests.
//
// Сначала валидируются все строки: товар существует, количество корректно,
// суммарный спрос заказа на товар не превышает ни остаток, ни лимит на заказ.
// Любой провал отклоняет заказ целиком без мутаций, в ошибке перечислены
// все провалившиеся строки. Только после полной валидации выполняются
// покупки в порядке строк и собирается чек.
func (p *Processor) ProcessOrder(requests []LineRequest) (Receipt, error) {
	start := time.Now()
	if p.metrics != nil {
		p.metrics.RecordOrderStarted()
		defer func() {
			p.metrics.RecordOrderDuration(time.Since(start))
		}()
	}

	if len(requests) == 0 {
		if p.metrics != nil {
			p.metrics.RecordOrderRejected()
		}
		return Receipt{}, ErrEmptyOrder
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if failures := p.validate(requests); len(failures) > 0 {
		if p.metrics != nil {
			p.metrics.RecordOrderRejected()
			for _, f := range failures {
				p.metrics.RecordLineRejection(rejectionReason(f.Err))
			}
		}
		p.logger.WithFields(log.Fields{
			"lines":  len(requests),
			"failed": len(failures),
		}).Info("заказ отклонён на валидации")
		return Receipt{}, &RejectionError{Failures: failures}
	}

	receipt := Receipt{
		ID:        uuid.NewString(),
		Lines:     make([]LineReceipt, 0, len(requests)),
		CreatedAt: start.UTC(),
	}

	for i, req := range requests {
		product, err := p.store.Find(req.Name)
		if err == nil {
			var promoName string
			if promo := product.Promotion(); promo != nil {
				promoName = promo.Name()
			}
			var lineTotal float64
			lineTotal, err = product.Buy(req.Qty)
			if err == nil {
				receipt.Lines = append(receipt.Lines, LineReceipt{
					Name:      req.Name,
					Qty:       req.Qty,
					Promotion: promoName,
					Total:     lineTotal,
				})
				receipt.Total += lineTotal
				if p.metrics != nil {
					p.metrics.RecordUnitsSold(req.Name, req.Qty)
				}
				continue
			}
		}

		// Сюда попадать нельзя: валидация строго сильнее проверок Buy.
		// Уже списанные строки не откатываются, инцидент фиксируется.
		p.logger.WithError(err).WithFields(log.Fields{
			"line":    i + 1,
			"product": req.Name,
			"qty":     req.Qty,
		}).Error("покупка упала после успешной валидации заказа")
		if p.metrics != nil {
			p.metrics.RecordOrderFailed()
		}
		return Receipt{}, fmt.Errorf("line %d (%s): %w: %w", i+1, req.Name, ErrOrderInconsistent, err)
	}

	if p.metrics != nil {
		p.metrics.RecordOrderCompleted(receipt.Total)
	}
	p.logger.WithFields(log.Fields{
		"order_id": receipt.ID,
		"lines":    len(receipt.Lines),
		"total":    receipt.Total,
	}).Info("заказ исполнен")

	return receipt, nil
}

// validate проверяет все строки заказа, не останавливаясь на первой ошибке.
// Спрос на один товар суммируется по строкам: лимит на заказ и остаток
// проверяются против накопленного количества, чтобы исполнение не могло
// упасть там, где валидация прошла.
func (p *Processor) validate(requests []LineRequest) []LineFailure {
	var failures []LineFailure
	accumulated := make(map[string]int, len(requests))

	for i, req := range requests {
		if req.Qty <= 0 {
			failures = append(failures, LineFailure{
				Line: i + 1,
				Name: req.Name,
				Qty:  req.Qty,
				Err:  fmt.Errorf("product %q: %w", req.Name, domain.ErrInvalidQuantity),
			})
			continue
		}

		product, err := p.store.Find(req.Name)
		if err != nil {
			failures = append(failures, LineFailure{Line: i + 1, Name: req.Name, Qty: req.Qty, Err: err})
			continue
		}

		demand := accumulated[req.Name] + req.Qty
		if err := product.IsAvailable(demand); err != nil {
			failures = append(failures, LineFailure{Line: i + 1, Name: req.Name, Qty: req.Qty, Err: err})
			continue
		}
		accumulated[req.Name] = demand
	}

	return failures
}

// rejectionReason сводит ошибку строки к стабильной метке для метрик.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, domain.ErrOverLimit):
		return "over_limit"
	case errors.Is(err, domain.ErrProductInactive):
		return "product_inactive"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	default:
		return "other"
	}
}
