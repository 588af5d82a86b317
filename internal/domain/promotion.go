package domain

import "fmt"

// Promotion описывает правило скидки для одной позиции заказа.
// Реализации чистые и не имеют состояния кроме собственных параметров:
// одна и та же пара (цена, количество) всегда даёт один и тот же итог.
type Promotion interface {
	// Name возвращает человекочитаемое название акции для чеков и листинга.
	Name() string
	// Apply считает итоговую стоимость позиции: unitPrice за единицу, qty единиц.
	// Количество валидирует вызывающая сторона (Product), здесь qty всегда > 0.
	Apply(unitPrice float64, qty int) float64
}

// secondItemHalfPrice — каждая вторая единица за полцены.
type secondItemHalfPrice struct{}

// NewSecondItemHalfPrice возвращает акцию «второй товар за полцены».
func NewSecondItemHalfPrice() Promotion {
	return secondItemHalfPrice{}
}

func (secondItemHalfPrice) Name() string { return "Second item at half price" }

// Apply разбивает количество на пары: в каждой паре одна единица идёт за полную
// цену, вторая за половину; непарный остаток оплачивается полностью.
// Формула применяется к количеству целиком, а не к под-партиям.
func (secondItemHalfPrice) Apply(unitPrice float64, qty int) float64 {
	halfUnits := qty / 2
	fullUnits := qty - halfUnits
	return unitPrice*float64(fullUnits) + 0.5*unitPrice*float64(halfUnits)
}

// buyTwoGetOneFree — каждая третья единица бесплатно.
type buyTwoGetOneFree struct{}

// NewBuyTwoGetOneFree возвращает акцию «купи два — получи третий бесплатно».
func NewBuyTwoGetOneFree() Promotion {
	return buyTwoGetOneFree{}
}

func (buyTwoGetOneFree) Name() string { return "Buy two, get one free" }

// Apply: на каждую полную тройку единиц одна не оплачивается,
// остаток (0–2 единицы) идёт по полной цене.
func (buyTwoGetOneFree) Apply(unitPrice float64, qty int) float64 {
	freeUnits := qty / 3
	return unitPrice * float64(qty-freeUnits)
}

// percentageDiscount — фиксированный процент скидки на всю позицию.
type percentageDiscount struct {
	percent float64
}

// NewPercentageDiscount возвращает процентную скидку.
// Процент вне [0, 100] — ошибка конфигурации, отклоняется при создании.
func NewPercentageDiscount(percent float64) (Promotion, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("percentage discount %v: %w", percent, ErrPercentageRange)
	}
	return percentageDiscount{percent: percent}, nil
}

func (p percentageDiscount) Name() string {
	return fmt.Sprintf("%g%% off", p.percent)
}

// Apply умножает полную стоимость позиции на (1 - percent/100).
func (p percentageDiscount) Apply(unitPrice float64, qty int) float64 {
	return unitPrice * float64(qty) * (1 - p.percent/100)
}
