package domain

import "errors"

var (
	// Ошибка пустого имени товара.
	ErrNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("product price must be non-negative")
	// Ошибка отрицательного количества при создании/пополнении.
	ErrQuantityNegative = errors.New("product quantity must be non-negative")
	// Ошибка некорректного лимита на заказ для capped-товара.
	ErrCapInvalid = errors.New("max per order must be greater than zero")
	// Ошибка при некорректном запрошенном количестве (<= 0).
	ErrInvalidQuantity = errors.New("requested quantity must be greater than zero")
	// ErrOutOfStock — запрошено больше, чем есть на складе.
	ErrOutOfStock = errors.New("insufficient stock")
	// ErrOverLimit — запрошено больше, чем разрешено в одном заказе.
	ErrOverLimit = errors.New("quantity exceeds per-order limit")
	// ErrProductInactive — товар снят с продажи.
	ErrProductInactive = errors.New("product is inactive")
	// ErrProductNotFound возвращается, если товар не найден в магазине.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct — попытка добавить товар с уже занятым именем.
	ErrDuplicateProduct = errors.New("product name already present")
	// ErrPercentageRange — процент скидки вне диапазона [0, 100].
	ErrPercentageRange = errors.New("discount percentage must be within [0, 100]")
)
