// Package catalog собирает магазин из YAML-описания ассортимента.
// Файл каталога — конфигурация запуска, изменения остатков в него не пишутся.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/store"
)

// File — корень YAML-каталога.
type File struct {
	Products []ProductSpec `yaml:"products"`
}

// ProductSpec описывает один товар каталога.
type ProductSpec struct {
	Name        string         `yaml:"name"`
	Price       float64        `yaml:"price"`
	Quantity    int            `yaml:"quantity"`
	Kind        string         `yaml:"kind"` // standard (по умолчанию), unlimited, capped
	MaxPerOrder int            `yaml:"max_per_order"`
	Promotion   *PromotionSpec `yaml:"promotion"`
}

// PromotionSpec описывает акцию товара.
type PromotionSpec struct {
	Type    string  `yaml:"type"` // second_half_price, third_one_free, percentage
	Percent float64 `yaml:"percent"`
}

// Load читает каталог из файла и собирает магазин.
func Load(path string) (*store.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML-каталог и собирает магазин.
// Любая некорректность каталога — ошибка конфигурации, магазин не создаётся.
func Parse(data []byte) (*store.Store, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("parse catalog: no products defined")
	}

	s, err := store.New()
	if err != nil {
		return nil, err
	}
	for i, spec := range file.Products {
		product, err := buildProduct(spec)
		if err != nil {
			return nil, fmt.Errorf("catalog product %d: %w", i+1, err)
		}
		if err := s.AddProduct(product); err != nil {
			return nil, fmt.Errorf("catalog product %d: %w", i+1, err)
		}
	}
	return s, nil
}

func buildProduct(spec ProductSpec) (*domain.Product, error) {
	var (
		product *domain.Product
		err     error
	)

	switch spec.Kind {
	case "", "standard":
		product, err = domain.NewProduct(spec.Name, spec.Price, spec.Quantity)
	case "unlimited":
		product, err = domain.NewUnlimitedProduct(spec.Name, spec.Price)
	case "capped":
		product, err = domain.NewCappedProduct(spec.Name, spec.Price, spec.Quantity, spec.MaxPerOrder)
	default:
		return nil, fmt.Errorf("unknown product kind %q", spec.Kind)
	}
	if err != nil {
		return nil, err
	}

	if spec.Promotion != nil {
		promo, err := buildPromotion(*spec.Promotion)
		if err != nil {
			return nil, err
		}
		product.SetPromotion(promo)
	}
	return product, nil
}

func buildPromotion(spec PromotionSpec) (domain.Promotion, error) {
	switch spec.Type {
	case "second_half_price":
		return domain.NewSecondItemHalfPrice(), nil
	case "third_one_free":
		return domain.NewBuyTwoGetOneFree(), nil
	case "percentage":
		return domain.NewPercentageDiscount(spec.Percent)
	default:
		return nil, fmt.Errorf("unknown promotion type %q", spec.Type)
	}
}

// DemoStore возвращает демонстрационный ассортимент, используемый
// при запуске без файла каталога.
func DemoStore() (*store.Store, error) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	if err != nil {
		return nil, err
	}
	macbook.SetPromotion(domain.NewSecondItemHalfPrice())

	earbuds, err := domain.NewProduct("Bose QuietComfort Earbuds", 250, 500)
	if err != nil {
		return nil, err
	}
	earbuds.SetPromotion(domain.NewBuyTwoGetOneFree())

	pixel, err := domain.NewProduct("Google Pixel 7", 500, 250)
	if err != nil {
		return nil, err
	}

	license, err := domain.NewUnlimitedProduct("Windows License", 125)
	if err != nil {
		return nil, err
	}
	thirtyOff, err := domain.NewPercentageDiscount(30)
	if err != nil {
		return nil, err
	}
	license.SetPromotion(thirtyOff)

	shipping, err := domain.NewCappedProduct("Shipping", 10, 250, 1)
	if err != nil {
		return nil, err
	}

	return store.New(macbook, earbuds, pixel, license, shipping)
}
