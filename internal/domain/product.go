package domain

import (
	"fmt"
	"strings"
)

// ProductKind задаёт семантику учёта остатков товара.
type ProductKind string

const (
	// KindStandard — обычный товар: покупка уменьшает остаток,
	// при нулевом остатке товар деактивируется.
	KindStandard ProductKind = "standard"
	// KindUnlimited — товар без складского учёта (например, цифровая лицензия):
	// остаток не отслеживается и не уменьшается.
	KindUnlimited ProductKind = "unlimited"
	// KindCapped — обычный товар с дополнительным лимитом на количество
	// в одном заказе, независимым от остатка.
	KindCapped ProductKind = "capped"
)

// Product — товар магазина. Имя уникально в пределах магазина и служит ключом.
// Варианты поведения выражены тегом Kind и исчерпывающе разбираются switch'ами.
type Product struct {
	Name        string
	Price       float64
	Quantity    int
	MaxPerOrder int // действует только для KindCapped
	Kind        ProductKind

	active    bool
	promotion Promotion
}

// NewProduct создаёт обычный товар с конечным остатком.
func NewProduct(name string, price float64, quantity int) (*Product, error) {
	if err := validateBase(name, price); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("product %q: %w", name, ErrQuantityNegative)
	}
	return &Product{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Kind:     KindStandard,
		active:   true,
	}, nil
}

// NewUnlimitedProduct создаёт товар без складского учёта.
func NewUnlimitedProduct(name string, price float64) (*Product, error) {
	if err := validateBase(name, price); err != nil {
		return nil, err
	}
	return &Product{
		Name:   name,
		Price:  price,
		Kind:   KindUnlimited,
		active: true,
	}, nil
}

// NewCappedProduct создаёт товар с лимитом maxPerOrder на один заказ.
func NewCappedProduct(name string, price float64, quantity, maxPerOrder int) (*Product, error) {
	if err := validateBase(name, price); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("product %q: %w", name, ErrQuantityNegative)
	}
	if maxPerOrder <= 0 {
		return nil, fmt.Errorf("product %q: %w", name, ErrCapInvalid)
	}
	return &Product{
		Name:        name,
		Price:       price,
		Quantity:    quantity,
		MaxPerOrder: maxPerOrder,
		Kind:        KindCapped,
		active:      true,
	}, nil
}

func validateBase(name string, price float64) error {
	if name == "" {
		return ErrNameRequired
	}
	if price < 0 {
		return fmt.Errorf("product %q: %w", name, ErrPriceNegative)
	}
	return nil
}

// IsActive сообщает, доступен ли товар к продаже.
func (p *Product) IsActive() bool { return p.active }

// Activate возвращает товар в продажу.
func (p *Product) Activate() { p.active = true }

// Deactivate снимает товар с продажи до явной активации.
func (p *Product) Deactivate() { p.active = false }

// SetPromotion привязывает акцию к товару, заменяя предыдущую.
func (p *Product) SetPromotion(promo Promotion) { p.promotion = promo }

// RemovePromotion убирает акцию с товара.
func (p *Product) RemovePromotion() { p.promotion = nil }

// Promotion возвращает привязанную акцию или nil.
func (p *Product) Promotion() Promotion { return p.promotion }

// GetPrice считает стоимость qty единиц без изменения состояния:
// через акцию, если она привязана, иначе по полной цене.
func (p *Product) GetPrice(qty int) (float64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("product %q: %w", p.Name, ErrInvalidQuantity)
	}
	if p.promotion != nil {
		return p.promotion.Apply(p.Price, qty), nil
	}
	return p.Price * float64(qty), nil
}

// IsAvailable проверяет, можно ли купить qty единиц, и возвращает
// причину отказа или nil. Состояние не меняется.
func (p *Product) IsAvailable(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("product %q: %w", p.Name, ErrInvalidQuantity)
	}
	if !p.active {
		return fmt.Errorf("product %q: %w", p.Name, ErrProductInactive)
	}

	switch p.Kind {
	case KindUnlimited:
		return nil
	case KindCapped:
		if qty > p.MaxPerOrder {
			return fmt.Errorf("product %q: %w (max %d per order)", p.Name, ErrOverLimit, p.MaxPerOrder)
		}
		fallthrough
	case KindStandard:
		if qty > p.Quantity {
			return fmt.Errorf("product %q: %w (have %d, want %d)", p.Name, ErrOutOfStock, p.Quantity, qty)
		}
		return nil
	default:
		return fmt.Errorf("product %q: unknown kind %q", p.Name, p.Kind)
	}
}

// Buy покупает qty единиц: проверяет доступность, считает стоимость по
// состоянию до списания и только затем уменьшает остаток. Любая ошибка
// оставляет товар нетронутым, частичных списаний не бывает.
func (p *Product) Buy(qty int) (float64, error) {
	if err := p.IsAvailable(qty); err != nil {
		return 0, err
	}

	total, err := p.GetPrice(qty)
	if err != nil {
		return 0, err
	}

	switch p.Kind {
	case KindStandard, KindCapped:
		p.Quantity -= qty
		if p.Quantity == 0 {
			p.Deactivate()
		}
	case KindUnlimited:
		// остаток не отслеживается
	}

	return total, nil
}

// Restock увеличивает остаток и возвращает товар в продажу.
// Для unlimited-товара операция не имеет смысла и игнорируется.
func (p *Product) Restock(qty int) error {
	if qty < 0 {
		return fmt.Errorf("product %q: %w", p.Name, ErrQuantityNegative)
	}
	if p.Kind == KindUnlimited {
		return nil
	}
	p.Quantity += qty
	if p.Quantity > 0 {
		p.Activate()
	}
	return nil
}

// ComparePrice сравнивает товары по цене: -1 дешевле, 0 одинаково, 1 дороже.
func (p *Product) ComparePrice(other *Product) int {
	switch {
	case p.Price < other.Price:
		return -1
	case p.Price > other.Price:
		return 1
	default:
		return 0
	}
}

// ContainsName проверяет вхождение подстроки в имя товара без учёта регистра.
// Используется поиском в меню, а не ценовой логикой.
func (p *Product) ContainsName(substr string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(substr))
}

// Describe возвращает строку для листинга магазина.
func (p *Product) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, Price: $%.2f", p.Name, p.Price)
	switch p.Kind {
	case KindUnlimited:
		b.WriteString(", Quantity: Unlimited")
	case KindCapped:
		fmt.Fprintf(&b, ", Quantity: %d, Maximum purchase: %d", p.Quantity, p.MaxPerOrder)
	default:
		fmt.Fprintf(&b, ", Quantity: %d", p.Quantity)
	}
	if p.promotion != nil {
		fmt.Fprintf(&b, ", Promotion: %s", p.promotion.Name())
	}
	return b.String()
}
