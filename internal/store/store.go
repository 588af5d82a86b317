// Package store содержит Store — упорядоченную коллекцию товаров магазина.
package store

import (
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Store хранит товары в порядке добавления. Имена товаров уникальны
// в пределах одного магазина, дубликат отклоняется при вставке.
type Store struct {
	products []*domain.Product
	byName   map[string]*domain.Product
}

// New создаёт магазин из списка товаров, проверяя уникальность имён.
func New(products ...*domain.Product) (*Store, error) {
	s := &Store{byName: make(map[string]*domain.Product, len(products))}
	for _, p := range products {
		if err := s.AddProduct(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddProduct добавляет товар в конец списка.
// Занятое имя — ошибка конфигурации магазина.
func (s *Store) AddProduct(p *domain.Product) error {
	if p == nil {
		return domain.ErrProductNotFound
	}
	if _, exists := s.byName[p.Name]; exists {
		return fmt.Errorf("product %q: %w", p.Name, domain.ErrDuplicateProduct)
	}
	s.products = append(s.products, p)
	s.byName[p.Name] = p
	return nil
}

// RemoveProduct убирает товар из магазина по имени.
func (s *Store) RemoveProduct(name string) error {
	if _, exists := s.byName[name]; !exists {
		return fmt.Errorf("product %q: %w", name, domain.ErrProductNotFound)
	}
	delete(s.byName, name)
	for i, p := range s.products {
		if p.Name == name {
			s.products = append(s.products[:i], s.products[i+1:]...)
			break
		}
	}
	return nil
}

// Find возвращает товар по имени.
func (s *Store) Find(name string) (*domain.Product, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("product %q: %w", name, domain.ErrProductNotFound)
	}
	return p, nil
}

// Search возвращает товары, имя которых содержит подстроку query.
func (s *Store) Search(query string) []*domain.Product {
	var result []*domain.Product
	for _, p := range s.products {
		if p.ContainsName(query) {
			result = append(result, p)
		}
	}
	return result
}

// TotalQuantity возвращает суммарный остаток по складским товарам.
// Unlimited-товары не учитываются: их остаток не имеет смысла.
func (s *Store) TotalQuantity() int {
	total := 0
	for _, p := range s.products {
		if p.Kind == domain.KindUnlimited {
			continue
		}
		total += p.Quantity
	}
	return total
}

// Products возвращает копию списка товаров в порядке добавления.
func (s *Store) Products() []*domain.Product {
	result := make([]*domain.Product, len(s.products))
	copy(result, s.products)
	return result
}

// ActiveProducts возвращает товары, доступные к продаже, в порядке добавления.
func (s *Store) ActiveProducts() []*domain.Product {
	var result []*domain.Product
	for _, p := range s.products {
		if p.IsActive() {
			result = append(result, p)
		}
	}
	return result
}

// Len возвращает количество товаров в магазине, включая неактивные.
func (s *Store) Len() int { return len(s.products) }

// Combine возвращает новый магазин: товары s, затем товары other.
// Уникальность имён между исходными магазинами намеренно не проверяется,
// при совпадении имени Find разрешает его в пользу товара из s.
func (s *Store) Combine(other *Store) *Store {
	combined := &Store{
		products: make([]*domain.Product, 0, len(s.products)+len(other.products)),
		byName:   make(map[string]*domain.Product, len(s.products)+len(other.products)),
	}
	for _, p := range other.products {
		combined.byName[p.Name] = p
	}
	for _, p := range s.products {
		combined.byName[p.Name] = p
	}
	combined.products = append(combined.products, s.products...)
	combined.products = append(combined.products, other.products...)
	return combined
}
